// Package tenor implements the GIF search collaborator against the Tenor
// v2 API. The core treats it as an external boundary: a search returns zero
// or more ranked media items, and repeated identical queries may return
// different results.
package tenor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/edgard/gifbot/internal/config"
	"github.com/edgard/gifbot/internal/model"
)

// Tenor caps result pages at 50 items.
const maxAPILimit = 50

// Client defines the search operations used throughout the application.
type Client interface {
	// Search returns up to limit GIFs for query. safe toggles the provider's
	// content filter. An empty result set is a valid outcome, not an error.
	Search(ctx context.Context, query string, safe bool, limit int) ([]model.MediaItem, error)

	// Trending returns up to limit currently-trending GIFs.
	Trending(ctx context.Context, limit int) ([]model.MediaItem, error)
}

type httpClient struct {
	apiKey     string
	baseURL    string
	httpc      *http.Client
	log        *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a Tenor API client with the provided configuration.
func NewClient(cfg config.TenorConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tenor API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	logger := log.With("component", "tenor_client")
	logger.Info("Tenor client initialized", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)

	return &httpClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpc:      &http.Client{Timeout: cfg.Timeout},
		log:        logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// apiResponse mirrors the slice of the Tenor v2 payload the bot needs.
type apiResponse struct {
	Results []struct {
		ID                 string `json:"id"`
		Title              string `json:"title"`
		ContentDescription string `json:"content_description"`
		MediaFormats       map[string]struct {
			URL string `json:"url"`
		} `json:"media_formats"`
	} `json:"results"`
}

func (c *httpClient) Search(ctx context.Context, query string, safe bool, limit int) ([]model.MediaItem, error) {
	if query == "" {
		return nil, nil
	}

	contentFilter := "off"
	if safe {
		contentFilter = "high"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(capLimit(limit)))
	params.Set("media_filter", "gif")
	params.Set("contentfilter", contentFilter)

	items, err := c.request(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "Search completed", "query", query, "safe", safe, "results", len(items))
	return items, nil
}

func (c *httpClient) Trending(ctx context.Context, limit int) ([]model.MediaItem, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(capLimit(limit)))
	params.Set("media_filter", "gif")

	items, err := c.request(ctx, "featured", params)
	if err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "Trending fetch completed", "results", len(items))
	return items, nil
}

func capLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxAPILimit {
		return maxAPILimit
	}
	return limit
}

// request performs one API call with retries on transport errors and 5xx
// responses.
func (c *httpClient) request(ctx context.Context, endpoint string, params url.Values) ([]model.MediaItem, error) {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.WarnContext(ctx, "Retrying Tenor API call",
				"endpoint", endpoint, "attempt", attempt+1, "error", lastErr)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		items, retryable, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return items, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("tenor %s request failed: %w", endpoint, lastErr)
}

func (c *httpClient) doRequest(ctx context.Context, reqURL string) (items []model.MediaItem, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return extractItems(payload), false, nil
}

// extractItems picks the best available GIF URL for each result, preferring
// the full-size format and falling back to tinygif. Results without a usable
// format are skipped.
func extractItems(payload apiResponse) []model.MediaItem {
	items := make([]model.MediaItem, 0, len(payload.Results))
	for _, r := range payload.Results {
		var mediaURL string
		if f, ok := r.MediaFormats["gif"]; ok && f.URL != "" {
			mediaURL = f.URL
		} else if f, ok := r.MediaFormats["tinygif"]; ok && f.URL != "" {
			mediaURL = f.URL
		} else {
			continue
		}

		meta := make(map[string]string)
		if r.Title != "" {
			meta["title"] = r.Title
		}
		if r.ContentDescription != "" {
			meta["description"] = r.ContentDescription
		}

		items = append(items, model.MediaItem{ID: r.ID, URL: mediaURL, Metadata: meta})
	}
	return items
}
