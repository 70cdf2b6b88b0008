package domain

import "time"

// Feedback record notes. NoteNoMatch is a first-class outcome:
// receipt lines frequently have no catalog counterpart (produce by
// weight, store-brand renames).
const (
	NoteNoMatch     = "no_match"
	NoteOK          = "ok"
	NoteDiscrepancy = "discrepancy"
)

// FeedbackRecord is one verification outcome. Records are append-only
// and identified by their position in the ledger; they are never
// edited or deleted.
type FeedbackRecord struct {
	Timestamp      time.Time     `json:"timestamp"`
	ReceiptStoreID string        `json:"receipt_store_id"`
	QueryText      string        `json:"query_text"`
	MatchedEntry   *CatalogEntry `json:"matched_entry,omitempty"`
	Confidence     float64       `json:"confidence"`
	ObservedPrice  int64         `json:"observed_price"` // euro cents
	CatalogPrice   *int64        `json:"catalog_price,omitempty"`
	Delta          int64         `json:"delta"` // observed - catalog, cents
	Significant    bool          `json:"significant"`
	Note           string        `json:"note,omitempty"`
}

// StatsFilter narrows a ledger stats scan.
type StatsFilter struct {
	StoreID         string
	SignificantOnly bool
}

// LedgerStats is the aggregate of one full scan over the ledger.
type LedgerStats struct {
	Count            int            `json:"count"`
	SignificantCount int            `json:"significant_count"`
	MeanDelta        float64        `json:"mean_delta"` // cents, over matched records
	PerStoreCounts   map[string]int `json:"per_store_counts"`
	// ConfidenceHistogram buckets confidence into tenths:
	// index 0 = [0.0,0.1), ..., index 9 = [0.9,1.0].
	ConfidenceHistogram [10]int `json:"confidence_histogram"`
	MalformedLines      int     `json:"malformed_lines"`
}
