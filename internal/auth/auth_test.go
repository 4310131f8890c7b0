package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret", "not-a-hash"))
}

func TestGenerateSessionTokenUnique(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSessionsLifecycle(t *testing.T) {
	s := NewSessions(time.Hour)
	defer s.Stop()

	sess, err := s.Create(7)
	require.NoError(t, err)

	got, ok := s.Validate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)

	s.Revoke(sess.Token)
	_, ok = s.Validate(sess.Token)
	assert.False(t, ok)

	_, ok = s.Validate("bogus")
	assert.False(t, ok)
}

func TestSessionsExpiry(t *testing.T) {
	s := NewSessions(time.Hour)
	defer s.Stop()

	current := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	sess, err := s.Create(1)
	require.NoError(t, err)

	current = current.Add(30 * time.Minute)
	_, ok := s.Validate(sess.Token)
	assert.True(t, ok)

	current = current.Add(31 * time.Minute)
	_, ok = s.Validate(sess.Token)
	assert.False(t, ok, "expired session must be rejected")
}
