package usecase

import (
	"sort"

	"github.com/prijsradar/backend/internal/domain"
)

// Comparator aggregates per-store prices into cheapest-first
// comparisons. It is stateless; every call reads from the catalog
// snapshot the caller passes in.
type Comparator struct{}

// NewComparator creates a price comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// CompareProduct compares one already-identified product across all
// stores that stock an entry with the same normalized name. The key
// may be a raw or normalized name; it is normalized before lookup.
// Stores with no stocked match are absent from the result.
func (c *Comparator) CompareProduct(productKey string, catalog *domain.Catalog, storeFilter []string) domain.ComparisonResult {
	if catalog == nil {
		return domain.ComparisonResult{}
	}
	key := domain.Normalize(productKey)
	if key == "" {
		return domain.ComparisonResult{}
	}

	stores := catalog.Stores()
	if len(storeFilter) > 0 {
		stores = storeFilter
	}

	var quotes []domain.PriceQuote
	for _, storeID := range stores {
		var best *domain.CatalogEntry
		for i := range catalog.StoreEntries(storeID) {
			entry := catalog.StoreEntries(storeID)[i]
			if entry.NormalizedName != key {
				continue
			}
			if best == nil || entry.Price < best.Price {
				e := entry
				best = &e
			}
		}
		if best != nil {
			quotes = append(quotes, domain.PriceQuote{
				StoreID:   best.StoreID,
				StoreName: domain.StoreDisplayName(best.StoreID),
				Price:     best.Price,
				Entry:     *best,
			})
		}
	}

	sortQuotes(quotes)
	return quotes
}

// CompareCandidates compares matcher candidates directly, used when
// product identity is ambiguous. Each store is represented by its
// highest-confidence candidate (ties broken by lower price) so the
// caller can judge from the confidence whether cross-store prices are
// even comparable. An exclusive store filter yields an empty result,
// not an error.
func (c *Comparator) CompareCandidates(candidates []domain.MatchCandidate, storeFilter []string) domain.ComparisonResult {
	allowed := storeSet(storeFilter)

	perStore := make(map[string]domain.MatchCandidate)
	for _, cand := range candidates {
		storeID := cand.Entry.StoreID
		if allowed != nil && !allowed[storeID] {
			continue
		}
		best, ok := perStore[storeID]
		if !ok || cand.Confidence > best.Confidence ||
			(cand.Confidence == best.Confidence && cand.Entry.Price < best.Entry.Price) {
			perStore[storeID] = cand
		}
	}

	quotes := make([]domain.PriceQuote, 0, len(perStore))
	for storeID, cand := range perStore {
		quotes = append(quotes, domain.PriceQuote{
			StoreID:    storeID,
			StoreName:  domain.StoreDisplayName(storeID),
			Price:      cand.Entry.Price,
			Confidence: cand.Confidence,
			Entry:      cand.Entry,
		})
	}

	sortQuotes(quotes)
	return quotes
}

// sortQuotes orders ascending by price, ties broken by store ID so
// results are deterministic.
func sortQuotes(quotes []domain.PriceQuote) {
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Price != quotes[j].Price {
			return quotes[i].Price < quotes[j].Price
		}
		return quotes[i].StoreID < quotes[j].StoreID
	})
}

// storeSet builds a lookup set from a store filter; nil means no
// restriction.
func storeSet(filter []string) map[string]bool {
	if len(filter) == 0 {
		return nil
	}
	set := make(map[string]bool, len(filter))
	for _, s := range filter {
		set[s] = true
	}
	return set
}
