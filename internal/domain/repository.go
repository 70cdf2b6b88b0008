package domain

import "context"

// CatalogSource fetches one complete multi-store snapshot from the
// upstream feed. It returns the mapped entries and the feed's version
// identifier (empty if the feed publishes none).
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]CatalogEntry, string, error)
}

// FeedbackLedger is the append-only feedback store.
// IMPORTANT: append-only. No update, no delete. Ever.
type FeedbackLedger interface {
	// Append durably writes one record. Returns ErrWrite on failure.
	Append(ctx context.Context, rec FeedbackRecord) error

	// Scan streams records in append order. Malformed lines are
	// skipped; their count is returned alongside any scan error.
	Scan(ctx context.Context, fn func(FeedbackRecord) error) (malformed int, err error)

	// Stats computes the aggregate in a single pass over the ledger.
	Stats(ctx context.Context, filter StatsFilter) (*LedgerStats, error)
}
