// Package discovery provides the client for the external book recommendation
// webhook, with a deterministic local fallback catalog.
package discovery

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
	"github.com/shelflifeapp/shelflife-server/internal/ratelimit"
)

const (
	// Webhook calls are bounded so a slow upstream can't hang searches.
	defaultTimeout = 10 * time.Second

	// Outbound rate limit: 2 requests per second, burst of 5.
	defaultRPS   = 2.0
	defaultBurst = 5

	// webhookLimitKey keys the outbound limiter. There is a single upstream.
	webhookLimitKey = "webhook"

	// fallbackProcessingTime is reported whenever the catalog serves results.
	fallbackProcessingTime = "2.1s"
)

// Client is a rate-limited webhook client. Every upstream deviation, from
// network failure to a missing success flag, degrades silently to the
// fallback catalog. Search never returns an upstream error to callers.
type Client struct {
	http       *http.Client
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
	webhookURL string
	catalog    *Catalog
}

// New creates a new discovery client. An empty webhookURL means every search
// is served from the catalog.
func New(webhookURL string, catalog *Catalog, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    ratelimit.New(defaultRPS, defaultBurst),
		logger:     logger,
		webhookURL: webhookURL,
		catalog:    catalog,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Search sends the query to the recommendation webhook and returns ranked
// results. The optional mood keyword is appended to the query text before
// dispatch. The only error returned is context cancellation; every upstream
// problem produces the fallback catalog instead.
func (c *Client) Search(ctx context.Context, query, mood string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = applyMood(query, mood)

	if c.webhookURL == "" {
		c.logger.Debug("no webhook configured, serving fallback catalog")
		return c.fallback(query), nil
	}

	resp, err := c.doRequest(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("webhook request failed, serving fallback catalog", "error", err)
		return c.fallback(query), nil
	}

	return resp, nil
}

// doRequest executes the webhook POST and parses the response.
func (c *Client) doRequest(ctx context.Context, query string) (*Result, error) {
	// Wait for rate limit
	if err := c.limiter.Wait(ctx, webhookLimitKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(webhookRequest{Body: webhookRequestBody{Query: query}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ShelfLife/1.0")

	c.logger.Debug("webhook request", "query", query)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var wire webhookResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	// success:false or absent means the upstream couldn't serve the query.
	if !wire.Success {
		return nil, fmt.Errorf("webhook reported failure")
	}

	// A 200 with success:true and zero results is a genuine empty result,
	// not a fault. It must NOT degrade to the catalog.
	result := &Result{
		Books:          make([]domain.Book, 0, len(wire.Results)),
		TotalResults:   wire.TotalResults,
		ProcessingTime: wire.ProcessingTime,
		Query:          query,
	}
	for _, b := range wire.Results {
		result.Books = append(result.Books, b.toDomain())
	}
	if result.TotalResults == 0 {
		result.TotalResults = len(result.Books)
	}

	return result, nil
}

// fallback builds a Result from the catalog.
func (c *Client) fallback(query string) *Result {
	books := c.catalog.Books()
	return &Result{
		Books:          books,
		TotalResults:   len(books),
		ProcessingTime: fallbackProcessingTime,
		Query:          query,
		Fallback:       true,
	}
}
