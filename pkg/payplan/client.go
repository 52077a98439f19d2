// Package payplan provides the HTTP client for the public pay plan
// DataTables endpoint: paged GET requests with query parameters and a
// total-record-count probe.
package payplan

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paydata/payplan/pkg/record"
)

// DefaultBaseURL is the public pay plan profile data endpoint.
const DefaultBaseURL = "https://utdirect.utexas.edu/apps/hr/payplan/nlogon/profiles/datatable/data/"

// DefaultPageSize matches the upstream page length the dataset is served
// with.
const DefaultPageSize = 100

// Client fetches raw pay plan pages. It implements the PageFetcher
// contract expected by the aggregator.
type Client struct {
	baseURL     string
	pageSize    int
	userAgent   string
	http        *resty.Client
	minInterval time.Duration
	logger      zerolog.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithPageSize overrides the page length requested per fetch.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMinInterval enforces a minimum spacing between requests. Zero
// disables spacing.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.minInterval = interval
	}
}

// WithRestyClient replaces the underlying resty client (for testing).
func WithRestyClient(client *resty.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// NewClient creates a pay plan client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		pageSize:  DefaultPageSize,
		userAgent: "payplan/0.1",
		http:      resty.New().SetTimeout(30 * time.Second),
		logger:    log.With().Str("component", "payplan-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the page length the client requests per fetch.
func (c *Client) PageSize() int {
	return c.pageSize
}

// TotalRecords probes the endpoint with a single-row request and returns
// the recordsTotal metadata. It must be called once before paging starts.
func (c *Client) TotalRecords(ctx context.Context) (int, error) {
	resp, err := c.fetch(ctx, 0, 0, 1)
	if err != nil {
		return 0, err
	}
	if resp.RecordsTotal == nil {
		return 0, ErrMissingTotal
	}
	c.logger.Debug().Int("records_total", *resp.RecordsTotal).Msg("probed total record count")
	return *resp.RecordsTotal, nil
}

// FetchPage fetches page `page` (zero-based) and converts its rows into
// validated raw records. An empty result slice signals end-of-data. A row
// failing validation is returned as an error: the snapshot is meant to be
// complete or not written at all.
func (c *Client) FetchPage(ctx context.Context, page int) ([]record.Raw, error) {
	resp, err := c.fetch(ctx, page, page*c.pageSize, c.pageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]record.Raw, 0, len(resp.Data))
	for i, row := range resp.Data {
		raw, err := record.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("page %d row %d: %w", page, i, err)
		}
		rows = append(rows, raw)
	}

	pagesFetchedTotal.Inc()
	c.logger.Debug().Int("page", page).Int("rows", len(rows)).Msg("fetched page")
	return rows, nil
}

func (c *Client) fetch(ctx context.Context, draw, start, length int) (*pageResponse, error) {
	if err := c.waitMinInterval(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(started).Seconds())
	}()

	var out pageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(queryParams(draw, start, length)).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent).
		SetResult(&out).
		Get(c.baseURL)
	if err != nil {
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("payplan: request failed: %w", err)
	}

	status := resp.StatusCode()
	requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	if resp.IsError() {
		c.logger.Warn().Int("status", status).Int("start", start).Msg("pay plan request error")
		return nil, &APIError{StatusCode: status, Message: resp.Status()}
	}

	return &out, nil
}

// waitMinInterval spaces requests at least minInterval apart so paging
// through the full dataset stays polite to the public endpoint.
func (c *Client) waitMinInterval(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	next := c.lastRequest.Add(c.minInterval)
	if !next.After(now) {
		c.lastRequest = now
		c.mu.Unlock()
		return nil
	}
	c.lastRequest = next
	c.mu.Unlock()

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// queryParams reproduces the DataTables request shape the endpoint
// expects: per-column descriptors plus paging and ordering controls.
func queryParams(draw, start, length int) url.Values {
	values := url.Values{}
	values.Set("draw", strconv.Itoa(draw))

	for i := 0; i < record.FieldCount; i++ {
		prefix := fmt.Sprintf("columns[%d]", i)
		values.Set(prefix+"[data]", strconv.Itoa(i))
		values.Set(prefix+"[searchable]", "true")
		// The two salary range columns are not orderable upstream.
		if i < 4 {
			values.Set(prefix+"[orderable]", "true")
		} else {
			values.Set(prefix+"[orderable]", "false")
		}
		values.Set(prefix+"[search][regex]", "false")
	}

	values.Set("order[0][column]", "0")
	values.Set("order[0][dir]", "asc")
	values.Set("start", strconv.Itoa(start))
	values.Set("length", strconv.Itoa(length))
	values.Set("search[value]", "")
	values.Set("search[regex]", "false")
	return values
}
