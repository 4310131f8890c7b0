package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService handles registration, login and session revocation.
// registerMu serializes Register so concurrent requests cannot both
// pass the uniqueness checks.
type AuthService struct {
	repo       store.Repository
	sessions   *auth.Sessions
	registerMu sync.Mutex
}

func NewAuthService(repo store.Repository, sessions *auth.Sessions) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a new user after checking both username and email are
// free. Lookups match case-insensitively, so "Demo" collides with "demo".
func (s *AuthService) Register(ctx context.Context, nu core.NewUser) (core.User, error) {
	if err := nu.Validate(); err != nil {
		return core.User{}, err
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, err := s.repo.GetUserByUsername(ctx, nu.Username); err == nil {
		return core.User{}, ErrUsernameTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return core.User{}, ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	nu.Password = hash

	user, err := s.repo.CreateUser(ctx, nu)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and opens a session. The same error is
// returned for an unknown username and a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (core.User, auth.Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, auth.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, auth.Session{}, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return core.User{}, auth.Session{}, ErrInvalidCredentials
	}

	session, err := s.sessions.Create(user.ID)
	if err != nil {
		return core.User{}, auth.Session{}, fmt.Errorf("create session: %w", err)
	}
	return user, session, nil
}

// Logout revokes the session for the given token. Unknown tokens are a
// no-op.
func (s *AuthService) Logout(_ context.Context, token string) {
	s.sessions.Revoke(token)
}
