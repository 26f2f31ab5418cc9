// Package client is a Go client for the FRA monitoring HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

const Version = "0.1.0"

// ErrInvalidConfig is returned by NewClient for an unusable base URL.
var ErrInvalidConfig = stderrors.New("client: invalid configuration")

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one FRA API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	records     *RecordsClient
	recordsOnce sync.Once
	holders     *HoldersClient
	holdersOnce sync.Once
	reports     *ReportsClient
	reportsOnce sync.Once
}

// APIError is a non-2xx response.  Code carries the server's error code
// when the body had one.
type APIError struct {
	StatusCode int              `json:"status_code"`
	Code       errors.ErrorCode `json:"code"`
	Message    string           `json:"message"`
	RequestID  string           `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("fra: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("fra: HTTP %d: %s [request_id=%s]", e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: empty baseURL", ErrInvalidConfig)
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// Uploads wait on the extraction model.
		httpClient:   &http.Client{Timeout: 3 * time.Minute},
		userAgent:    fmt.Sprintf("fra-go-client/%s", Version),
		logger:       &noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Records returns the records sub-client.
func (c *Client) Records() *RecordsClient {
	c.recordsOnce.Do(func() {
		c.records = &RecordsClient{client: c}
	})
	return c.records
}

// Holders returns the patta holder sub-client.
func (c *Client) Holders() *HoldersClient {
	c.holdersOnce.Do(func() {
		c.holders = &HoldersClient{client: c}
	})
	return c.holders
}

// Reports returns the report download sub-client.
func (c *Client) Reports() *ReportsClient {
	c.reportsOnce.Do(func() {
		c.reports = &ReportsClient{client: c}
	})
	return c.reports
}

// request describes one call.  newBody is invoked per attempt so that
// retries resend the full payload.
type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	newBody     func() (io.Reader, error)
	// retry is false for calls that must not be sent twice.
	retry bool
}

// response is a successful reply.
type response struct {
	header http.Header
	body   []byte
}

func (c *Client) send(ctx context.Context, r request) (*response, error) {
	path := r.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}
	retryMax := c.retryMax
	if !r.retry {
		retryMax = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var body io.Reader
		if r.newBody != nil {
			b, err := r.newBody()
			if err != nil {
				return nil, err
			}
			body = b
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		requestID := uuid.New().String()
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", r.method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			lastErr = newAPIError(resp.StatusCode, requestID, respBody)
			if resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}
		return &response{header: resp.Header, body: respBody}, nil
	}
	return nil, lastErr
}

// newAPIError reads the server's {"success":false,"error":..,"code":..} body.
func newAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}
	var errResp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errors.ErrorCode(errResp.Code)
		apiErr.Message = errResp.Error
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}

// envelope is the {"success":true,"data":..} wrapper of JSON endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count,omitempty"`
	Message string          `json:"message,omitempty"`
}

// getData fetches path and decodes the envelope's data into result.
func (c *Client) getData(ctx context.Context, path string, query url.Values, result interface{}) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, query: query, retry: true})
	if err != nil {
		return err
	}
	return decodeData(resp.body, result)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/json",
		newBody:     func() (io.Reader, error) { return bytes.NewReader(raw), nil },
	})
}

func decodeData(body []byte, result interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if backoff < 4 {
		return backoff
	}
	jitter := time.Duration(rand.Int63n(int64(backoff / 4)))
	return backoff + jitter
}

//Personal.AI order the ending
