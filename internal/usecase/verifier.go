package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/prijsradar/backend/internal/domain"
)

// defaultSignificanceThreshold is the minimum absolute price delta,
// in euro cents, for a discrepancy to be flagged as noteworthy.
// Rounding and promotion noise below it is recorded but not flagged.
const defaultSignificanceThreshold = int64(5)

// VerifierConfig holds tunable parameters for the classifier.
type VerifierConfig struct {
	SignificanceThreshold int64 // euro cents
	EnableDebugLogging    bool
}

// Verifier compares an observed receipt price against the matched
// catalog price and appends a structured verdict to the ledger. It is
// a pure request/response classifier with no state beyond the catalog
// snapshot it is handed and the ledger it writes to.
type Verifier struct {
	matcher            *Matcher
	ledger             domain.FeedbackLedger
	threshold          int64
	enableDebugLogging bool
	now                func() time.Time
}

// NewVerifier creates a discrepancy classifier writing to ledger.
func NewVerifier(matcher *Matcher, ledger domain.FeedbackLedger, config VerifierConfig) *Verifier {
	threshold := config.SignificanceThreshold
	if threshold <= 0 {
		threshold = defaultSignificanceThreshold
	}

	return &Verifier{
		matcher:            matcher,
		ledger:             ledger,
		threshold:          threshold,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// Verify matches queryText within the receipt's store, classifies the
// observed price against the catalog price, appends the record, and
// returns it. A query with no catalog counterpart yields a no_match
// record, never an error; only a failed ledger append propagates.
func (v *Verifier) Verify(ctx context.Context, queryText string, observedPrice int64, receiptStoreID string, catalog *domain.Catalog) (*domain.FeedbackRecord, error) {
	if strings.TrimSpace(queryText) == "" || receiptStoreID == "" || observedPrice < 0 {
		return nil, domain.ErrInvalidRequest
	}

	rec := domain.FeedbackRecord{
		Timestamp:      v.now(),
		ReceiptStoreID: receiptStoreID,
		QueryText:      queryText,
		ObservedPrice:  observedPrice,
		Note:           domain.NoteNoMatch,
	}

	candidates := v.matcher.Match(queryText, catalog, 1, []string{receiptStoreID})
	if len(candidates) > 0 {
		best := candidates[0]
		catalogPrice := best.Entry.Price
		delta := observedPrice - catalogPrice

		rec.MatchedEntry = &best.Entry
		rec.Confidence = best.Confidence
		rec.CatalogPrice = &catalogPrice
		rec.Delta = delta
		rec.Significant = abs(delta) >= v.threshold
		if rec.Significant {
			rec.Note = domain.NoteDiscrepancy
		} else {
			rec.Note = domain.NoteOK
		}

		if v.enableDebugLogging {
			log.Printf("[VERIFY] %q @ %s: observed=%d catalog=%d delta=%d significant=%v confidence=%.3f",
				queryText, receiptStoreID, observedPrice, catalogPrice, delta, rec.Significant, rec.Confidence)
		}
	} else if v.enableDebugLogging {
		log.Printf("[VERIFY] %q @ %s: no catalog match", queryText, receiptStoreID)
	}

	if err := v.ledger.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("appending verification record: %w", err)
	}

	return &rec, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
