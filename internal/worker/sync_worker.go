// Package worker drains the transaction export queue into the external
// ledger. AMQP messages drive the hot path; a periodic catch-up sweep
// covers messages lost while the worker was down.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

type SyncWorker struct {
	repo      store.Repository
	ledger    export.LedgerAppender
	batchSize int
}

func NewSyncWorker(repo store.Repository, ledger export.LedgerAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		repo:      repo,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports the single transaction named by an AMQP
// message. A transaction that has vanished from the store is dropped,
// not requeued.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	tx, err := w.repo.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction missing from store, dropping sync message", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", msg.ID, err)
	}
	return w.exportTransaction(ctx, tx)
}

// ProcessPending exports transactions the queue still holds. This is
// the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.repo.ListUnexportedTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", log.FieldOperation, log.OpSync, "count", len(pending))
	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", tx.ID, log.FieldError, err)
			continue
		}
	}
	return nil
}

// StartupCheck runs one larger catch-up pass before consumption starts.
func (w *SyncWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.repo.ListUnexportedTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unexported transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup", log.FieldOperation, log.OpStartup, "count", len(pending))
	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed startup export", "id", tx.ID, log.FieldError, err)
		}
	}
	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	row := export.Row{
		Date:        tx.Date,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Type:        string(tx.Type),
	}

	// Category and account are optional decoration on the exported row;
	// a lookup miss leaves the column blank.
	if tx.CategoryID != 0 {
		if cat, err := w.repo.GetCategory(ctx, tx.CategoryID); err == nil {
			row.Category = cat.Name
		}
	}
	if acc, err := w.repo.GetAccount(ctx, tx.AccountID); err == nil {
		row.Account = acc.Name
	}

	ref, err := w.ledger.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.repo.MarkExported(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark transaction %d exported: %w", tx.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		log.FieldLedgerRef, ref,
		log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
