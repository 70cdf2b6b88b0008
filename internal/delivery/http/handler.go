package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prijsradar/backend/internal/domain"
	"github.com/prijsradar/backend/internal/infrastructure/catalog"
	"github.com/prijsradar/backend/internal/usecase"
)

// searchCandidatePool is how many candidates the matcher collects
// before they are collapsed to one quote per store.
const searchCandidatePool = 50

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalogStore *catalog.Store
	matcher      *usecase.Matcher
	comparator   *usecase.Comparator
	verifier     *usecase.Verifier
	dealFinder   *usecase.DealFinder
	ledger       domain.FeedbackLedger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogStore *catalog.Store,
	matcher *usecase.Matcher,
	comparator *usecase.Comparator,
	verifier *usecase.Verifier,
	dealFinder *usecase.DealFinder,
	ledger domain.FeedbackLedger,
) *Handler {
	return &Handler{
		catalogStore: catalogStore,
		matcher:      matcher,
		comparator:   comparator,
		verifier:     verifier,
		dealFinder:   dealFinder,
		ledger:       ledger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "prijsradar-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the body of POST /prices/search.
type searchRequest struct {
	Query  string   `json:"query" binding:"required"`
	Stores []string `json:"stores,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

// SearchPrices matches the query against the current catalog and
// returns a cheapest-first per-store comparison.
func (h *Handler) SearchPrices(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	cat := h.catalogStore.Current()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded yet"})
		return
	}

	candidates := h.matcher.Match(req.Query, cat, searchCandidatePool, req.Stores)
	result := h.comparator.CompareCandidates(candidates, nil)
	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"query":      req.Query,
		"generation": cat.Generation,
		"stale":      cat.Stale,
		"results":    result,
	})
}

// verifyRequest is the body of POST /receipts/verify. Prices are in
// euro cents.
type verifyRequest struct {
	Query         string `json:"query" binding:"required"`
	ObservedPrice int64  `json:"observed_price" binding:"required"`
	StoreID       string `json:"store_id" binding:"required"`
}

// VerifyReceiptLine classifies one receipt line against the catalog
// and appends the verdict to the feedback ledger.
func (h *Handler) VerifyReceiptLine(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query, observed_price and store_id are required"})
		return
	}

	cat := h.catalogStore.Current()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded yet"})
		return
	}

	rec, err := h.verifier.Verify(c.Request.Context(), req.Query, req.ObservedPrice, req.StoreID, cat)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Ledger append failures must surface; swallowing them would
		// corrupt the statistics.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetStats returns ledger aggregates, optionally filtered by store
// and significance.
func (h *Handler) GetStats(c *gin.Context) {
	filter := domain.StatsFilter{
		StoreID:         c.Query("store"),
		SignificantOnly: c.Query("significant") == "true",
	}

	stats, err := h.ledger.Stats(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RefreshCatalog triggers a catalog refresh. A refresh already in
// flight makes this a no-op that reports the current generation.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	cat, err := h.catalogStore.Refresh(c.Request.Context())

	status := h.catalogStore.Status()
	if err != nil {
		code := http.StatusBadGateway
		if cat != nil {
			// Prior generation still serves; the trigger just needs to
			// know the refresh failed.
			code = http.StatusOK
		}
		c.JSON(code, gin.H{"refreshed": false, "status": status})
		return
	}

	c.JSON(http.StatusOK, gin.H{"refreshed": true, "status": status})
}

// CatalogStatus reports the current generation, its age, and the last
// refresh outcome.
func (h *Handler) CatalogStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogStore.Status())
}

// GetDeals lists staples priced well below their typical price.
func (h *Handler) GetDeals(c *gin.Context) {
	cat := h.catalogStore.Current()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded yet"})
		return
	}

	var stores []string
	if raw := c.Query("stores"); raw != "" {
		stores = strings.Split(raw, ",")
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	c.JSON(http.StatusOK, gin.H{
		"stale": cat.Stale,
		"deals": h.dealFinder.Find(cat, stores, limit),
	})
}
