package usecase

import (
	"testing"

	"github.com/prijsradar/backend/internal/domain"
)

func TestFindDeals(t *testing.T) {
	finder := NewDealFinder()

	catalog := testCatalog(
		// melk reference 120; 75% cutoff is 90
		domain.CatalogEntry{StoreID: "lidl", ProductName: "Halfvolle melk 1L", Price: 79},
		domain.CatalogEntry{StoreID: "ah", ProductName: "Halfvolle melk 1L", Price: 119},
		// brood reference 150; cutoff 112, compound name counts too
		domain.CatalogEntry{StoreID: "dirk", ProductName: "Volkorenbrood heel", Price: 99},
		// not a staple keyword
		domain.CatalogEntry{StoreID: "jumbo", ProductName: "Truffeltapenade", Price: 50},
	)

	t.Run("flags staples well below reference price", func(t *testing.T) {
		deals := finder.Find(catalog, nil, 0)
		if len(deals) != 2 {
			t.Fatalf("got %d deals, want 2", len(deals))
		}
		// Cheapest first.
		if deals[0].StoreID != "lidl" || deals[0].Category != "melk" {
			t.Errorf("deals[0] = %s/%s, want lidl/melk", deals[0].StoreID, deals[0].Category)
		}
		if deals[1].StoreID != "dirk" || deals[1].Category != "brood" {
			t.Errorf("deals[1] = %s/%s, want dirk/brood", deals[1].StoreID, deals[1].Category)
		}
	})

	t.Run("normally priced staples are not deals", func(t *testing.T) {
		for _, d := range finder.Find(catalog, nil, 0) {
			if d.StoreID == "ah" {
				t.Errorf("ah milk at 119 flagged as deal")
			}
		}
	})

	t.Run("store filter applies", func(t *testing.T) {
		deals := finder.Find(catalog, []string{"dirk"}, 0)
		if len(deals) != 1 || deals[0].StoreID != "dirk" {
			t.Errorf("deals = %+v, want only dirk", deals)
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		if deals := finder.Find(catalog, nil, 1); len(deals) != 1 {
			t.Errorf("got %d deals, want 1", len(deals))
		}
	})

	t.Run("nil catalog yields nothing", func(t *testing.T) {
		if deals := finder.Find(nil, nil, 0); deals != nil {
			t.Errorf("deals = %v, want nil", deals)
		}
	})
}
