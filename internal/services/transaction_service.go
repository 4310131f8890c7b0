package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// TransactionService orchestrates transaction writes across the store
// and the AMQP sync queue.
type TransactionService struct {
	repo       store.Repository
	amqpClient *amqp.Client
}

func NewTransactionService(repo store.Repository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// Create validates and saves a transaction, applies its signed amount to
// the referenced account balance, then publishes a sync message.
func (s *TransactionService) Create(ctx context.Context, nt core.NewTransaction) (core.Transaction, error) {
	if err := nt.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// The account must exist before we record anything against it.
	account, err := s.repo.GetAccount(ctx, nt.AccountID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get account %d: %w", nt.AccountID, err)
	}

	tx, err := s.repo.CreateTransaction(ctx, nt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	balance := account.Balance.Add(tx.Signed())
	if _, err := s.repo.UpdateAccountBalance(ctx, account.ID, balance); err != nil {
		return core.Transaction{}, fmt.Errorf("update account balance: %w", err)
	}

	// Publish async sync message (non-blocking, version 1 for new transaction)
	if err := s.publishSyncMessage(ctx, tx.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", tx.ID, log.FieldError, err)
		// Don't fail the request - the transaction is saved locally
	}

	return tx, nil
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishTransactionSync(ctx, id, version)
}

// Close closes the AMQP connection if one was configured.
func (s *TransactionService) Close() error {
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.Close(); err != nil {
		return fmt.Errorf("close transaction service: %w", err)
	}
	return nil
}
