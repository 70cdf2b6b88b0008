package domain

// MatchCandidate is one scored catalog entry for a free-text query.
// Produced transiently per query; never persisted.
type MatchCandidate struct {
	Entry       CatalogEntry `json:"entry"`
	Confidence  float64      `json:"confidence"` // 0.0 - 1.0
	MatchReason string       `json:"matchReason,omitempty"`
}

// PriceQuote is one store's price for a compared product.
type PriceQuote struct {
	StoreID    string       `json:"storeId"`
	StoreName  string       `json:"storeName"`
	Price      int64        `json:"price"` // euro cents
	Confidence float64      `json:"confidence,omitempty"`
	Entry      CatalogEntry `json:"entry"`
}

// ComparisonResult is a cheapest-first price comparison. Always
// sorted ascending by price, ties broken by store ID so the ordering
// is deterministic. Stores that stock no match are simply absent.
type ComparisonResult []PriceQuote
