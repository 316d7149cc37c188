package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aidline/aidline/internal/logging"
	"github.com/aidline/aidline/internal/request"
)

const (
	// SubmitPath is the dispatcher endpoint that accepts new requests
	SubmitPath = "/v1/requests"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 8 * time.Second

	// SimulatedDelay is how long the simulated transport takes to respond.
	// This stands in for the round trip to a real dispatch backend.
	SimulatedDelay = 1500 * time.Millisecond

	// SourceID identifies this client in submitted payloads
	SourceID = "aidline-cli"
)

// Client submits ambulance requests to a dispatch service.
//
// When BaseURL is empty the client runs in simulated mode: Submit waits for
// SimulatedDelay and fabricates a receipt. This is a placeholder for the
// real dispatch backend, which does not exist yet.
type Client struct {
	// BaseURL is the dispatch service base URL ("" = simulated mode)
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// now is injectable for tests
	now func() time.Time
}

// NewClient creates a dispatch client for the given base URL. An empty
// baseURL selects simulated mode.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       baseURL,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		now:           time.Now,
	}
}

// Simulated reports whether the client uses the simulated transport.
func (c *Client) Simulated() bool {
	return c.BaseURL == ""
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Submit validates nothing - callers are expected to have run
// request.Validate first - and sends the draft to the dispatch service.
// Returns the dispatcher's receipt, or a SubmitError describing the failure.
func (c *Client) Submit(ctx context.Context, draft *request.Draft) (*Receipt, error) {
	if c.Simulated() {
		return c.submitSimulated(ctx, draft)
	}

	payload := request.Submission{
		Draft:       *draft,
		SubmittedAt: c.now().UTC(),
		Source:      SourceID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewParseError("failed to encode request payload", err)
	}

	var lastErr error
	currentDelay := c.RetryDelay

	// Retry loop with exponential backoff
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, NewNetworkError("submission cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		receipt, err := c.submitAttempt(ctx, body, attempt+1)
		if err == nil {
			logging.LogSubmission(receipt.ID, draft.EmergencyType, false)
			return receipt, nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// submitAttempt performs a single POST to the dispatcher
func (c *Client) submitAttempt(ctx context.Context, body []byte, attempt int) (*Receipt, error) {
	url := c.BaseURL + SubmitPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.LogHTTPRequest(url, http.MethodPost, attempt)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("dispatch service unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPResponse(url, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		return nil, NewRejectedError("dispatcher rejected the request payload")
	case resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK:
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	var receipt Receipt
	if err := json.Unmarshal(respBody, &receipt); err != nil {
		return nil, NewParseError("failed to parse dispatcher receipt", err)
	}

	if receipt.ID == "" {
		return nil, NewParseError("dispatcher receipt missing request id", nil)
	}

	return &receipt, nil
}

// submitSimulated stands in for the unimplemented dispatch backend: it
// waits for a fixed delay and fabricates a receipt. The delay respects
// context cancellation so a quitting TUI does not hang.
func (c *Client) submitSimulated(ctx context.Context, draft *request.Draft) (*Receipt, error) {
	select {
	case <-ctx.Done():
		return nil, NewNetworkError("submission cancelled", ctx.Err())
	case <-time.After(SimulatedDelay):
	}

	receipt := &Receipt{
		ID:         uuid.NewString(),
		AcceptedAt: c.now().UTC(),
		ETAMinutes: 8,
		Simulated:  true,
	}

	logging.LogSubmission(receipt.ID, draft.EmergencyType, true)
	return receipt, nil
}
