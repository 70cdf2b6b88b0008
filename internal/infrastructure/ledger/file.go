package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prijsradar/backend/internal/domain"
)

// FileLedger is an append-only, newline-delimited feedback record
// store. One JSON record per line; each line parses independently, so
// a corrupt trailing line never invalidates prior lines. Records are
// identified by position and never edited or deleted.
type FileLedger struct {
	path string

	// writeMu serializes appends so concurrent writers cannot
	// interleave partial lines.
	writeMu sync.Mutex
}

// NewFileLedger creates a ledger at path, creating parent directories
// as needed.
func NewFileLedger(path string) (*FileLedger, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty ledger path", domain.ErrInvalidRequest)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return &FileLedger{path: path}, nil
}

// Append durably writes one record. It never fails silently: any I/O
// error surfaces as ErrWrite, which callers must propagate.
func (l *FileLedger) Append(ctx context.Context, rec domain.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encoding record: %v", domain.ErrWrite, err)
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return nil
}

// Scan streams records in append order. Unparsable lines are skipped
// and counted rather than aborting the scan. A missing ledger file is
// an empty ledger, not an error.
func (l *FileLedger) Scan(ctx context.Context, fn func(domain.FeedbackRecord) error) (int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	malformed := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return malformed, err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec domain.FeedbackRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			malformed++
			continue
		}
		if err := fn(rec); err != nil {
			return malformed, err
		}
	}

	if err := scanner.Err(); err != nil {
		return malformed, fmt.Errorf("scanning ledger: %w", err)
	}
	return malformed, nil
}

// Stats computes the aggregate in a single pass. Ledger sizes are
// thousands of records, so a full scan is cheap relative to the
// interactive call frequency; no incremental aggregate is kept.
func (l *FileLedger) Stats(ctx context.Context, filter domain.StatsFilter) (*domain.LedgerStats, error) {
	stats := &domain.LedgerStats{
		PerStoreCounts: make(map[string]int),
	}

	var deltaSum int64
	var deltaCount int

	malformed, err := l.Scan(ctx, func(rec domain.FeedbackRecord) error {
		if filter.StoreID != "" && rec.ReceiptStoreID != filter.StoreID {
			return nil
		}
		if filter.SignificantOnly && !rec.Significant {
			return nil
		}

		stats.Count++
		stats.PerStoreCounts[rec.ReceiptStoreID]++
		if rec.Significant {
			stats.SignificantCount++
		}
		if rec.CatalogPrice != nil {
			deltaSum += rec.Delta
			deltaCount++
		}

		bucket := int(rec.Confidence * 10)
		if bucket > 9 {
			bucket = 9
		}
		if bucket < 0 {
			bucket = 0
		}
		stats.ConfidenceHistogram[bucket]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.MalformedLines = malformed
	if deltaCount > 0 {
		stats.MeanDelta = float64(deltaSum) / float64(deltaCount)
	}
	return stats, nil
}

// Archive renames the ledger file aside wholesale; subsequent appends
// start a fresh ledger. Records are never deleted individually.
func (l *FileLedger) Archive(suffix string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil
	}
	return os.Rename(l.path, l.path+"."+suffix)
}
