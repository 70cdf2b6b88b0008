package feed

import (
	"log"
	"math"
	"time"

	"github.com/prijsradar/backend/internal/domain"
)

// mapSnapshot converts raw feed blocks into validated catalog
// entries. Malformed records (empty name, non-positive price, names
// normalizing to nothing) are quarantined: counted and skipped, never
// passed on to matching. Duplicate normalized names within one store
// keep the first-seen entry.
func mapSnapshot(stores []feedStore, seenAt time.Time) []domain.CatalogEntry {
	var entries []domain.CatalogEntry
	quarantined := 0

	for _, store := range stores {
		if store.Name == "" {
			quarantined += len(store.Products)
			continue
		}

		seen := make(map[string]bool, len(store.Products))
		for _, p := range store.Products {
			entry, ok := mapProduct(store.Name, p, seenAt)
			if !ok {
				quarantined++
				continue
			}
			if seen[entry.NormalizedName] {
				continue
			}
			seen[entry.NormalizedName] = true
			entries = append(entries, entry)
		}
	}

	if quarantined > 0 {
		log.Printf("[FEED] Quarantined %d malformed feed records", quarantined)
	}

	return entries
}

// mapProduct validates and converts one feed product.
func mapProduct(storeID string, p feedProduct, seenAt time.Time) (domain.CatalogEntry, bool) {
	if p.Name == "" || p.Price <= 0 {
		return domain.CatalogEntry{}, false
	}

	normalized := domain.Normalize(p.Name)
	if normalized == "" {
		return domain.CatalogEntry{}, false
	}

	return domain.CatalogEntry{
		StoreID:        storeID,
		ProductName:    p.Name,
		NormalizedName: normalized,
		Price:          eurosToCents(p.Price),
		Size:           p.Size,
		Link:           p.Link,
		LastSeen:       seenAt,
	}, true
}

// eurosToCents converts a feed price in euros to minor units. Feed
// prices carry at most two decimals; rounding guards against float
// representation noise (1.19 -> 119, never 118).
func eurosToCents(euros float64) int64 {
	return int64(math.Round(euros * 100))
}
