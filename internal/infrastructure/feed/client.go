package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/prijsradar/backend/internal/domain"
	"golang.org/x/time/rate"
)

// feedStore is one store block in the checkjebon snapshot format:
// {"n": "ah", "d": [{"n": name, "p": price, "s": size, "l": link}]}.
type feedStore struct {
	Name     string        `json:"n"`
	Products []feedProduct `json:"d"`
}

type feedProduct struct {
	Name  string  `json:"n"`
	Price float64 `json:"p"` // euros
	Size  string  `json:"s"`
	Link  string  `json:"l"`
}

// Client fetches the full multi-store product snapshot from a
// checkjebon-style feed. The feed is treated as opaque bulk data;
// there is no partial or incremental update negotiation.
type Client struct {
	httpClient  *http.Client
	feedURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a feed client. The limiter keeps refresh bursts
// polite toward the upstream host; refreshes are scheduled daily, so
// one request a minute with a small burst is generous.
func NewClient(feedURL string) *Client {
	limiter := rate.NewLimiter(rate.Limit(1.0/60.0), 3)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		feedURL:     feedURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchCatalog downloads and maps the complete snapshot. Any failure
// to reach or parse the feed is reported as ErrSourceUnavailable so
// the catalog store can fall back to its last good snapshot. The
// returned version is the feed's ETag when the server provides one.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CatalogEntry, string, error) {
	if c.debug {
		log.Printf("[FEED] Downloading snapshot from %s", c.feedURL)
	}

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("rate limiter error: %w", err)
		}

		body, version, err := c.download(ctx)
		if err != nil {
			log.Printf("[FEED] Fetch error (attempt %d): %v", attempt, err)
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(attempt*500) * time.Millisecond):
			}
			continue
		}

		var stores []feedStore
		if err := json.Unmarshal(body, &stores); err != nil {
			return nil, "", fmt.Errorf("%w: decoding feed: %v", domain.ErrSourceUnavailable, err)
		}

		entries := mapSnapshot(stores, time.Now())
		if len(entries) == 0 {
			return nil, "", fmt.Errorf("%w: feed contained no usable entries", domain.ErrSourceUnavailable)
		}

		if c.debug {
			log.Printf("[FEED] Mapped %d entries from %d stores", len(entries), len(stores))
		}
		return entries, version, nil
	}

	return nil, "", fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, lastErr)
}

func (c *Client) download(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "prijsradar/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", domain.ErrSourceUnavailable, err)
	}

	return body, resp.Header.Get("ETag"), nil
}
