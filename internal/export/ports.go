// Package export defines the outbound ledger port the sync worker
// writes through.
package export

import (
	"context"
	"time"
)

// Row is one exported transaction, flattened to display values so the
// target needs no knowledge of the domain model.
type Row struct {
	Date        time.Time
	Description string
	Amount      string
	Type        string
	Category    string
	Account     string
}

// LedgerAppender appends rows to an external ledger and returns an
// opaque reference to the written row.
type LedgerAppender interface {
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
