package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prijsradar/backend/internal/domain"
)

// snapshotFile is the on-disk fallback format, written after every
// successful load so restarts work without the upstream feed.
type snapshotFile struct {
	FetchedAt     time.Time             `json:"fetchedAt"`
	SourceVersion string                `json:"sourceVersion"`
	Entries       []domain.CatalogEntry `json:"entries"`
}

// Status describes the store's refresh state for observability.
type Status struct {
	Generation    string        `json:"generation,omitempty"`
	SourceVersion string        `json:"sourceVersion,omitempty"`
	FetchedAt     time.Time     `json:"fetchedAt,omitempty"`
	Age           time.Duration `json:"age,omitempty"`
	Stale         bool          `json:"stale"`
	EntryCount    int           `json:"entryCount"`
	LastRefresh   time.Time     `json:"lastRefresh,omitempty"`
	LastError     string        `json:"lastError,omitempty"`
}

// Store holds the current catalog generation. Refreshes build a whole
// new generation and atomically swap the current pointer; readers
// grab the pointer once per query and never observe a half-updated
// state. Price data is advisory, so a stale generation keeps serving
// rather than failing closed.
type Store struct {
	source       domain.CatalogSource
	snapshotPath string
	maxAge       time.Duration

	current atomic.Pointer[domain.Catalog]

	// refreshMu serializes refreshes; a trigger arriving while one is
	// in flight no-ops rather than queueing.
	refreshMu sync.Mutex

	statusMu    sync.Mutex
	lastRefresh time.Time
	lastErr     error
}

// NewStore creates a catalog store backed by source, with a disk
// snapshot at snapshotPath. maxAge is the age beyond which callers
// are warned of staleness; zero disables the age check.
func NewStore(source domain.CatalogSource, snapshotPath string, maxAge time.Duration) *Store {
	return &Store{
		source:       source,
		snapshotPath: snapshotPath,
		maxAge:       maxAge,
	}
}

// Current returns the active generation without blocking on network.
// Nil until the first successful Load or Refresh.
func (s *Store) Current() *domain.Catalog {
	return s.current.Load()
}

// Load fetches the full snapshot and installs it as the current
// generation. If the upstream cannot be reached it falls back to the
// last good disk snapshot, flagged stale; ErrSourceUnavailable only
// when neither is available.
func (s *Store) Load(ctx context.Context) (*domain.Catalog, error) {
	entries, version, err := s.source.FetchCatalog(ctx)
	if err == nil {
		cat := domain.NewCatalog(uuid.NewString(), version, time.Now(), false, entries)
		s.install(cat, nil)
		if saveErr := s.saveSnapshot(cat); saveErr != nil {
			log.Printf("[CATALOG] Failed to persist snapshot: %v", saveErr)
		}
		log.Printf("[CATALOG] Loaded generation %s: %d entries from %d stores",
			cat.Generation, cat.Len(), len(cat.Stores()))
		return cat, nil
	}

	log.Printf("[CATALOG] Feed unavailable, trying disk snapshot: %v", err)

	snap, snapErr := s.loadSnapshot()
	if snapErr != nil {
		s.recordFailure(err)
		return nil, fmt.Errorf("%w: no local snapshot either (%v)", domain.ErrSourceUnavailable, snapErr)
	}

	cat := domain.NewCatalog(uuid.NewString(), snap.SourceVersion, snap.FetchedAt, true, snap.Entries)
	s.install(cat, err)
	log.Printf("[CATALOG] Serving stale snapshot from %s (%d entries)",
		snap.FetchedAt.Format(time.RFC3339), cat.Len())
	return cat, nil
}

// Refresh performs Load in the background of normal serving and, only
// on full success, atomically replaces the current generation. A
// failed refresh leaves the existing generation untouched apart from
// its stale flag, and records the failure. A refresh already in
// progress causes this call to no-op.
func (s *Store) Refresh(ctx context.Context) (*domain.Catalog, error) {
	if !s.refreshMu.TryLock() {
		return s.Current(), nil
	}
	defer s.refreshMu.Unlock()

	entries, version, err := s.source.FetchCatalog(ctx)
	if err != nil {
		prev := s.Current()
		if prev != nil && !prev.Stale {
			// Same entries, same fetch time; only the flag changes so
			// callers can warn.
			prev = domain.NewCatalog(prev.Generation, prev.SourceVersion, prev.FetchedAt, true, prev.Entries)
			s.current.Store(prev)
		}
		s.recordFailure(err)
		log.Printf("[CATALOG] Refresh failed, keeping current generation: %v", err)
		return prev, err
	}

	cat := domain.NewCatalog(uuid.NewString(), version, time.Now(), false, entries)
	s.install(cat, nil)
	if saveErr := s.saveSnapshot(cat); saveErr != nil {
		log.Printf("[CATALOG] Failed to persist snapshot: %v", saveErr)
	}
	log.Printf("[CATALOG] Refreshed to generation %s (%d entries)", cat.Generation, cat.Len())
	return cat, nil
}

// Status reports the current generation and refresh outcome.
func (s *Store) Status() Status {
	st := Status{}

	if cat := s.Current(); cat != nil {
		st.Generation = cat.Generation
		st.SourceVersion = cat.SourceVersion
		st.FetchedAt = cat.FetchedAt
		st.Age = cat.Age(time.Now())
		st.EntryCount = cat.Len()
		st.Stale = cat.Stale || (s.maxAge > 0 && st.Age > s.maxAge)
	}

	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st.LastRefresh = s.lastRefresh
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Store) install(cat *domain.Catalog, err error) {
	s.current.Store(cat)
	s.statusMu.Lock()
	s.lastRefresh = time.Now()
	s.lastErr = err
	s.statusMu.Unlock()
}

func (s *Store) recordFailure(err error) {
	s.statusMu.Lock()
	s.lastRefresh = time.Now()
	s.lastErr = err
	s.statusMu.Unlock()
}

func (s *Store) saveSnapshot(cat *domain.Catalog) error {
	if s.snapshotPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(snapshotFile{
		FetchedAt:     cat.FetchedAt,
		SourceVersion: cat.SourceVersion,
		Entries:       cat.Entries,
	})
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never corrupts the
	// fallback snapshot.
	tmp := s.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.snapshotPath)
}

func (s *Store) loadSnapshot() (*snapshotFile, error) {
	if s.snapshotPath == "" {
		return nil, fmt.Errorf("no snapshot path configured")
	}

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return nil, err
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	if len(snap.Entries) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	return &snap, nil
}
