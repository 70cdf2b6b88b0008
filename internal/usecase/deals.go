package usecase

import (
	"sort"
	"strings"

	"github.com/prijsradar/backend/internal/domain"
)

// dealReferencePrices maps staple keywords to typical prices in euro
// cents. The feed carries no explicit promotion markers, so entries
// priced well below these references are flagged as likely deals.
var dealReferencePrices = map[string]int64{
	"melk":    120,
	"brood":   150,
	"kaas":    300,
	"boter":   200,
	"eieren":  250,
	"kip":     400,
	"gehakt":  400,
	"pasta":   100,
	"rijst":   150,
	"bier":    80,
	"cola":    100,
	"chips":   150,
	"pizza":   250,
	"yoghurt": 100,
	"appels":  150,
	"bananen": 150,
}

// dealDiscountFactor: an entry counts as a deal when priced at or
// below 75% of its category reference.
const dealDiscountFactor = 0.75

const defaultDealLimit = 20

// Deal is one suspiciously cheap staple listing.
type Deal struct {
	StoreID   string              `json:"storeId"`
	StoreName string              `json:"storeName"`
	Category  string              `json:"category"`
	Price     int64               `json:"price"`
	Entry     domain.CatalogEntry `json:"entry"`
}

// DealFinder scans the catalog for staples priced well below their
// typical price.
type DealFinder struct{}

// NewDealFinder creates a deal finder.
func NewDealFinder() *DealFinder {
	return &DealFinder{}
}

// Find returns up to limit deals, cheapest first. A pure read over
// the given catalog snapshot.
func (f *DealFinder) Find(catalog *domain.Catalog, storeFilter []string, limit int) []Deal {
	if catalog == nil {
		return nil
	}
	if limit <= 0 {
		limit = defaultDealLimit
	}

	// Without a filter the scan covers the budget-first default set,
	// not every chain in the catalog; premium chains rarely beat the
	// reference prices and only add noise.
	stores := domain.DefaultStores
	if len(storeFilter) > 0 {
		stores = storeFilter
	}

	var deals []Deal
	for _, storeID := range stores {
		for _, entry := range catalog.StoreEntries(storeID) {
			category, ok := dealCategory(entry.NormalizedName)
			if !ok {
				continue
			}
			reference := dealReferencePrices[category]
			if float64(entry.Price) > float64(reference)*dealDiscountFactor {
				continue
			}
			deals = append(deals, Deal{
				StoreID:   storeID,
				StoreName: domain.StoreDisplayName(storeID),
				Category:  category,
				Price:     entry.Price,
				Entry:     entry,
			})
		}
	}

	sort.Slice(deals, func(i, j int) bool {
		if deals[i].Price != deals[j].Price {
			return deals[i].Price < deals[j].Price
		}
		return deals[i].StoreID < deals[j].StoreID
	})

	if len(deals) > limit {
		deals = deals[:limit]
	}
	return deals
}

// dealCategory returns the first staple keyword contained in the
// normalized name.
func dealCategory(normalizedName string) (string, bool) {
	for _, token := range strings.Fields(normalizedName) {
		if _, ok := dealReferencePrices[token]; ok {
			return token, true
		}
	}
	// Substring fallback for compound names ("volkorenbrood").
	for _, keyword := range dealKeywords {
		if strings.Contains(normalizedName, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// dealKeywords is the sorted keyword list, kept alongside the map so
// substring scans are deterministic.
var dealKeywords = func() []string {
	keywords := make([]string, 0, len(dealReferencePrices))
	for k := range dealReferencePrices {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}()
