// Package searchclient implements the outbound HTTP client for the
// third-party search service.
package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
	"github.com/ordercloud-api/searchproxy/pkg/httpclient"
)

var upstreamRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "search_upstream_requests_total",
		Help: "Total requests sent to the upstream search service by outcome",
	},
	[]string{"status"},
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
}

// Config holds the upstream search service connection settings.
type Config struct {
	// BaseURL is the root host of the search API,
	// e.g. https://discover.sitecorecloud.io.
	BaseURL string

	// DomainID is the numeric search domain identifier.
	DomainID string

	// APIKey authenticates outbound calls via the X-API-Key header.
	APIKey string

	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
}

// TransportError reports an upstream failure after the retry budget is
// exhausted. StatusCode is zero for network-level failures.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("search upstream unreachable: %s", e.Body)
	}
	return fmt.Sprintf("search upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap ties transport failures into the shared error taxonomy so the HTTP
// layer maps them to 502 without knowing this package.
func (e *TransportError) Unwrap() error {
	return apperrors.ErrUpstream
}

// Client posts search requests to POST {base}/discover/v2/{domainID}.
// Transient failures (network errors, 5xx, 429) are retried with a fixed
// delay by the underlying HTTP client; repeated 5xx additionally trip a
// circuit breaker.
type Client struct {
	url    string
	apiKey string
	http   *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// New builds a search client from connection settings.
func New(cfg Config, logger *slog.Logger) *Client {
	hc := httpclient.New(httpclient.Config{
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.RetryCount,
		RetryWait:       cfg.RetryDelay,
		MaxConnsPerHost: 100,
	})
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig("search-upstream"), logger)

	return &Client{
		url:    fmt.Sprintf("%s/discover/v2/%s", cfg.BaseURL, cfg.DomainID),
		apiKey: cfg.APIKey,
		http:   cb,
		logger: logger,
	}
}

// Search posts the mapped request and decodes the response document into a
// generic tree. Any non-2xx outcome surfaces as a TransportError.
func (c *Client) Search(ctx context.Context, req *domain.SearchRequest) (map[string]any, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("encode search request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("build search request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(ctx, httpReq)
	if err != nil {
		// The circuit breaker surfaces 5xx responses as StatusError so
		// the final status and body survive the retry loop.
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			upstreamRequestsTotal.WithLabelValues(strconv.Itoa(statusErr.StatusCode)).Inc()
			return nil, &TransportError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			upstreamRequestsTotal.WithLabelValues("circuit_open").Inc()
			return nil, &TransportError{Body: "circuit breaker open"}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &TransportError{Body: err.Error()}
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "search upstream request failed",
			slog.Int("status", resp.StatusCode),
		)
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.DataContract(fmt.Sprintf("decode search response: %v", err))
	}
	return result, nil
}
