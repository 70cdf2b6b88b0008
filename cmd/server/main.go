package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prijsradar/backend/config"
	httpDelivery "github.com/prijsradar/backend/internal/delivery/http"
	"github.com/prijsradar/backend/internal/infrastructure/catalog"
	"github.com/prijsradar/backend/internal/infrastructure/feed"
	"github.com/prijsradar/backend/internal/infrastructure/ledger"
	"github.com/prijsradar/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Prijsradar Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Feed: %s", cfg.Feed.URL)

	// Initialize infrastructure dependencies
	feedClient := feed.NewClient(cfg.Feed.URL)
	if cfg.Server.Environment == "development" {
		feedClient.SetDebug(true)
	}

	catalogStore := catalog.NewStore(feedClient, cfg.Catalog.SnapshotPath, cfg.Catalog.MaxAge)

	fileLedger, err := ledger.NewFileLedger(cfg.Ledger.Path)
	if err != nil {
		log.Fatalf("Failed to open feedback ledger: %v", err)
	}
	log.Printf("Ledger: %s", cfg.Ledger.Path)

	// Initialize usecase layer
	matcher := usecase.NewMatcher(usecase.MatcherConfig{
		TokenOverlapWeight:   cfg.Matching.TokenOverlapWeight,
		EditSimilarityWeight: cfg.Matching.EditSimilarityWeight,
		ConfidenceFloor:      cfg.Matching.ConfidenceFloor,
		EnableDebugLogging:   cfg.Matching.EnableDebugLogging,
	})
	comparator := usecase.NewComparator()
	verifier := usecase.NewVerifier(matcher, fileLedger, usecase.VerifierConfig{
		SignificanceThreshold: cfg.Matching.SignificanceThreshold,
		EnableDebugLogging:    cfg.Matching.EnableDebugLogging,
	})
	dealFinder := usecase.NewDealFinder()

	log.Printf("Matching: overlap=%.2f edit=%.2f floor=%.2f threshold=%d cents",
		cfg.Matching.TokenOverlapWeight,
		cfg.Matching.EditSimilarityWeight,
		cfg.Matching.ConfidenceFloor,
		cfg.Matching.SignificanceThreshold)

	// Initial catalog load; a dead feed with an existing disk snapshot
	// still serves, flagged stale.
	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := catalogStore.Load(loadCtx); err != nil {
		log.Printf("WARNING: initial catalog load failed: %v (queries will 503 until a refresh succeeds)", err)
	}
	cancel()

	// Scheduled refresh; a trigger overlapping an in-flight refresh
	// no-ops inside the store.
	if cfg.Catalog.RefreshInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Catalog.RefreshInterval)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if _, err := catalogStore.Refresh(ctx); err != nil {
					log.Printf("Scheduled refresh failed: %v", err)
				}
				cancel()
			}
		}()
		log.Printf("Refresh interval: %s", cfg.Catalog.RefreshInterval)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogStore, matcher, comparator, verifier, dealFinder, fileLedger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
