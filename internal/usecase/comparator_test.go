package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prijsradar/backend/internal/domain"
)

func TestCompareProduct(t *testing.T) {
	comparator := NewComparator()

	catalog := testCatalog(
		domain.CatalogEntry{StoreID: "ah", ProductName: "Halfvolle melk 1L", Price: 119},
		domain.CatalogEntry{StoreID: "lidl", ProductName: "Halfvolle Melk 1 liter", Price: 109},
		domain.CatalogEntry{StoreID: "jumbo", ProductName: "Volle melk", Price: 129},
	)

	t.Run("cheapest first across stocking stores", func(t *testing.T) {
		result := comparator.CompareProduct("halfvolle melk", catalog, nil)
		require.Len(t, result, 2)
		assert.Equal(t, "lidl", result[0].StoreID)
		assert.Equal(t, int64(109), result[0].Price)
		assert.Equal(t, "ah", result[1].StoreID)
		assert.Equal(t, int64(119), result[1].Price)
	})

	t.Run("raw key is normalized before lookup", func(t *testing.T) {
		result := comparator.CompareProduct("Halfvolle Melk 1L", catalog, nil)
		require.Len(t, result, 2)
		assert.Equal(t, "lidl", result[0].StoreID)
	})

	t.Run("non-stocking stores are absent", func(t *testing.T) {
		result := comparator.CompareProduct("halfvolle melk", catalog, nil)
		for _, q := range result {
			assert.NotEqual(t, "jumbo", q.StoreID)
		}
	})

	t.Run("store filter excluding all stores yields empty result", func(t *testing.T) {
		result := comparator.CompareProduct("halfvolle melk", catalog, []string{"spar", "vomar"})
		assert.Empty(t, result)
	})

	t.Run("empty key yields empty result", func(t *testing.T) {
		assert.Empty(t, comparator.CompareProduct("", catalog, nil))
		assert.Empty(t, comparator.CompareProduct("?!", catalog, nil))
	})

	t.Run("nil catalog yields empty result", func(t *testing.T) {
		assert.Empty(t, comparator.CompareProduct("melk", nil, nil))
	})

	t.Run("equal prices tie-break by store id", func(t *testing.T) {
		cat := testCatalog(
			domain.CatalogEntry{StoreID: "jumbo", ProductName: "Bruin brood", Price: 150},
			domain.CatalogEntry{StoreID: "ah", ProductName: "Bruin Brood", Price: 150},
			domain.CatalogEntry{StoreID: "dirk", ProductName: "bruin brood", Price: 150},
		)
		result := comparator.CompareProduct("bruin brood", cat, nil)
		require.Len(t, result, 3)
		assert.Equal(t, []string{"ah", "dirk", "jumbo"}, []string{result[0].StoreID, result[1].StoreID, result[2].StoreID})
	})

	t.Run("cheapest entry per store wins", func(t *testing.T) {
		// Duplicate normalized names inside one store are deduplicated
		// at load time, but the comparator must not rely on that.
		entries := []domain.CatalogEntry{
			{StoreID: "ah", ProductName: "Roomboter", NormalizedName: "roomboter", Price: 250},
			{StoreID: "ah", ProductName: "Roomboter!", NormalizedName: "roomboter", Price: 199},
		}
		cat := domain.NewCatalog("gen-dup", "v1", timeFixed(), false, entries)
		result := comparator.CompareProduct("roomboter", cat, nil)
		require.Len(t, result, 1)
		assert.Equal(t, int64(199), result[0].Price)
	})
}

func TestCompareCandidates(t *testing.T) {
	comparator := NewComparator()

	milkAH := domain.CatalogEntry{StoreID: "ah", ProductName: "Halfvolle melk 1L", NormalizedName: "halfvolle melk", Price: 119}
	milkLidl := domain.CatalogEntry{StoreID: "lidl", ProductName: "Halfvolle Melk 1 liter", NormalizedName: "halfvolle melk", Price: 109}
	milkLidlAlt := domain.CatalogEntry{StoreID: "lidl", ProductName: "Melk halfvol voordeel", NormalizedName: "melk halfvol voordeel", Price: 99}

	t.Run("sorted ascending with confidence carried", func(t *testing.T) {
		result := comparator.CompareCandidates([]domain.MatchCandidate{
			{Entry: milkAH, Confidence: 0.95},
			{Entry: milkLidl, Confidence: 0.97},
		}, nil)

		require.Len(t, result, 2)
		assert.Equal(t, "lidl", result[0].StoreID)
		assert.Equal(t, int64(109), result[0].Price)
		assert.InDelta(t, 0.97, result[0].Confidence, 1e-9)
		assert.Equal(t, "ah", result[1].StoreID)
	})

	t.Run("one quote per store, highest confidence wins", func(t *testing.T) {
		result := comparator.CompareCandidates([]domain.MatchCandidate{
			{Entry: milkLidl, Confidence: 0.97},
			{Entry: milkLidlAlt, Confidence: 0.60},
		}, nil)

		require.Len(t, result, 1)
		assert.Equal(t, int64(109), result[0].Price)
	})

	t.Run("confidence tie prefers cheaper entry", func(t *testing.T) {
		result := comparator.CompareCandidates([]domain.MatchCandidate{
			{Entry: milkLidl, Confidence: 0.9},
			{Entry: milkLidlAlt, Confidence: 0.9},
		}, nil)

		require.Len(t, result, 1)
		assert.Equal(t, int64(99), result[0].Price)
	})

	t.Run("store filter excluding every candidate yields empty result", func(t *testing.T) {
		result := comparator.CompareCandidates([]domain.MatchCandidate{
			{Entry: milkAH, Confidence: 0.95},
		}, []string{"jumbo"})
		assert.Empty(t, result)
	})

	t.Run("display names resolved from registry", func(t *testing.T) {
		result := comparator.CompareCandidates([]domain.MatchCandidate{
			{Entry: milkAH, Confidence: 0.95},
		}, nil)
		require.Len(t, result, 1)
		assert.Equal(t, "Albert Heijn", result[0].StoreName)
	})

	t.Run("no candidates yields empty result", func(t *testing.T) {
		assert.Empty(t, comparator.CompareCandidates(nil, nil))
	})
}
