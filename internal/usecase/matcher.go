package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/prijsradar/backend/internal/domain"
)

// Default scoring parameters. Token overlap is weighted higher than
// edit distance: it is robust to word order, which varies across
// store-specific naming ("Halfvolle melk 1L" vs "Melk halfvol").
const (
	defaultTokenOverlapWeight   = 0.7
	defaultEditSimilarityWeight = 0.3
	defaultConfidenceFloor      = 0.3
	defaultTopK                 = 5
)

// MatcherConfig holds tunable scoring parameters for the matcher.
// Zero values fall back to the defaults above.
type MatcherConfig struct {
	TokenOverlapWeight   float64
	EditSimilarityWeight float64
	ConfidenceFloor      float64
	EnableDebugLogging   bool
}

// Matcher scores free-text queries against catalog entries and
// returns ranked candidates with confidence.
type Matcher struct {
	tokenOverlapWeight   float64
	editSimilarityWeight float64
	confidenceFloor      float64
	enableDebugLogging   bool
}

// NewMatcher creates a matcher with the given scoring configuration.
func NewMatcher(config MatcherConfig) *Matcher {
	w1 := config.TokenOverlapWeight
	if w1 <= 0 {
		w1 = defaultTokenOverlapWeight
	}
	w2 := config.EditSimilarityWeight
	if w2 <= 0 {
		w2 = defaultEditSimilarityWeight
	}
	floor := config.ConfidenceFloor
	if floor <= 0 {
		floor = defaultConfidenceFloor
	}

	return &Matcher{
		tokenOverlapWeight:   w1,
		editSimilarityWeight: w2,
		confidenceFloor:      floor,
		enableDebugLogging:   config.EnableDebugLogging,
	}
}

// Match scores query against every catalog entry (restricted to
// storeFilter when given) and returns at most topK candidates,
// confidence descending. Candidates below the confidence floor are
// excluded entirely, so an empty result means "no usable match".
// An empty or zero-token query returns an empty result, not an error.
func (m *Matcher) Match(query string, catalog *domain.Catalog, topK int, storeFilter []string) []domain.MatchCandidate {
	if catalog == nil {
		return nil
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	queryNorm := domain.Normalize(query)
	queryTokens := domain.Tokens(query)
	if len(queryTokens) == 0 {
		return nil
	}

	stores := catalog.Stores()
	if len(storeFilter) > 0 {
		stores = storeFilter
	}

	var candidates []domain.MatchCandidate
	for _, storeID := range stores {
		for _, entry := range catalog.StoreEntries(storeID) {
			confidence, reason := m.score(queryNorm, queryTokens, entry.NormalizedName)
			if confidence < m.confidenceFloor {
				continue
			}
			candidates = append(candidates, domain.MatchCandidate{
				Entry:       entry,
				Confidence:  confidence,
				MatchReason: reason,
			})
		}
	}

	// Deterministic ordering: confidence desc, then shorter normalized
	// name, then lexical.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		ni, nj := candidates[i].Entry.NormalizedName, candidates[j].Entry.NormalizedName
		if len(ni) != len(nj) {
			return len(ni) < len(nj)
		}
		return ni < nj
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	if m.enableDebugLogging {
		log.Printf("[MATCH] query=%q candidates=%d", query, len(candidates))
		for _, c := range candidates {
			log.Printf("[MATCH]   %.3f %s %q (%s)", c.Confidence, c.Entry.StoreID, c.Entry.ProductName, c.MatchReason)
		}
	}

	return candidates
}

// score blends token-set overlap with character-level edit similarity
// on the full normalized strings.
func (m *Matcher) score(queryNorm string, queryTokens []string, entryNorm string) (float64, string) {
	entryTokens := strings.Fields(entryNorm)
	if len(entryTokens) == 0 {
		return 0, ""
	}

	shared, union := intersectionAndUnion(queryTokens, entryTokens)
	overlap := 0.0
	if union > 0 {
		overlap = float64(shared) / float64(union)
	}

	editSim := editSimilarity(queryNorm, entryNorm)

	confidence := m.tokenOverlapWeight*overlap + m.editSimilarityWeight*editSim
	if confidence > 1 {
		confidence = 1
	}

	reason := "token_overlap"
	switch {
	case queryNorm == entryNorm:
		reason = "exact_normalized"
	case editSim > overlap:
		reason = "edit_distance"
	}

	return confidence, reason
}

// editSimilarity maps Levenshtein distance into [0,1], 1 meaning
// identical strings.
func editSimilarity(s1, s2 string) float64 {
	longest := len([]rune(s1))
	if n := len([]rune(s2)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshteinDistance(s1, s2))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// intersectionAndUnion returns the shared and total unique token
// counts across both token sets.
func intersectionAndUnion(tokens1, tokens2 []string) (int, int) {
	set := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set[t] = true
	}

	union := len(set)
	shared := 0
	seen := make(map[string]bool, len(tokens2))
	for _, t := range tokens2 {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			shared++
		} else {
			union++
		}
	}

	return shared, union
}
