package domain

import (
	"sort"
	"time"
)

// CatalogEntry represents one product listing at one store.
// The same conceptual product appears once per store; entries are
// immutable once their catalog generation is built.
type CatalogEntry struct {
	StoreID        string    `json:"storeId"`
	ProductName    string    `json:"productName"`
	NormalizedName string    `json:"normalizedName"`
	Price          int64     `json:"price"` // euro cents
	Size           string    `json:"size,omitempty"`
	Link           string    `json:"link,omitempty"`
	LastSeen       time.Time `json:"lastSeen"`
}

// Catalog is one complete generation of store listings. A refresh
// builds a new Catalog and swaps it in wholesale; a generation is
// never mutated after construction, so concurrent readers holding a
// reference always see a consistent snapshot.
type Catalog struct {
	Generation    string         `json:"generation"`
	SourceVersion string         `json:"sourceVersion"`
	FetchedAt     time.Time      `json:"fetchedAt"`
	Stale         bool           `json:"stale"`
	Entries       []CatalogEntry `json:"entries"`

	byStore map[string][]CatalogEntry
}

// NewCatalog builds a generation from already-deduplicated entries
// and indexes them per store.
func NewCatalog(generation, sourceVersion string, fetchedAt time.Time, stale bool, entries []CatalogEntry) *Catalog {
	c := &Catalog{
		Generation:    generation,
		SourceVersion: sourceVersion,
		FetchedAt:     fetchedAt,
		Stale:         stale,
		Entries:       entries,
		byStore:       make(map[string][]CatalogEntry),
	}
	for _, e := range entries {
		c.byStore[e.StoreID] = append(c.byStore[e.StoreID], e)
	}
	return c
}

// Age reports how old this generation is at the given time.
func (c *Catalog) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// Len returns the total number of entries across all stores.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// StoreEntries returns all entries for one store, or nil if the store
// is absent from this generation.
func (c *Catalog) StoreEntries(storeID string) []CatalogEntry {
	return c.byStore[storeID]
}

// Stores returns the store IDs present in this generation, sorted.
func (c *Catalog) Stores() []string {
	stores := make([]string, 0, len(c.byStore))
	for id := range c.byStore {
		stores = append(stores, id)
	}
	sort.Strings(stores)
	return stores
}
