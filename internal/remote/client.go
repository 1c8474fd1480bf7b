// Package remote is the only component that talks to the location service.
// It decodes the API envelope, maps every transport failure into the closed
// error taxonomy, and rate-limits outbound calls.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// Envelope is the wire shape every remote call returns.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Client is an HTTP client for the location service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the service at baseURL. Outbound calls
// are capped at 10 req/s with a small burst so a drain of a deep queue
// cannot hammer the service.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// do performs one request and returns the raw envelope data, with every
// failure already mapped into the taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &location.APIError{Code: location.ErrNetwork, Message: err.Error()}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &location.APIError{Code: location.ErrUnknown, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reqBody = bytes.NewReader(raw)
	}

	start := time.Now()
	logRequest(method, path)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, &location.APIError{Code: location.ErrUnknown, Message: fmt.Sprintf("create request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response reached the server.
		logError(method, path, err)
		return nil, &location.APIError{Code: location.ErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := location.CodeFromStatus(resp.StatusCode)
		msg := readMessage(resp.Body, resp.StatusCode)
		logError(method, path, fmt.Errorf("status %d", resp.StatusCode))
		return nil, &location.APIError{Code: code, Message: msg}
	}

	var env Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		logError(method, path, err)
		return nil, &location.APIError{Code: location.ErrUnknown, Message: fmt.Sprintf("decode response: %v", err)}
	}

	logResponse(method, path, resp.StatusCode, time.Since(start))

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "remote call failed"
		}
		return nil, &location.APIError{Code: location.ErrAPI, Message: msg}
	}
	return env.Data, nil
}

// decode unmarshals envelope data into the typed result. A malformed
// payload inside a successful envelope is still UNKNOWN_ERROR.
func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &location.APIError{Code: location.ErrUnknown, Message: fmt.Sprintf("decode payload: %v", err)}
	}
	return out, nil
}

// readMessage pulls an explanatory message out of an error response body,
// falling back to the status code.
func readMessage(body io.Reader, status int) string {
	var env Envelope[json.RawMessage]
	if err := json.NewDecoder(body).Decode(&env); err == nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("remote returned status %d", status)
}

func logRequest(method, path string) {
	log.Printf("[remote] %s %s", method, path)
}

func logResponse(method, path string, status int, d time.Duration) {
	log.Printf("[remote] %s %s status=%d duration=%dms", method, path, status, d.Milliseconds())
}

func logError(method, path string, err error) {
	log.Printf("[remote] %s %s error: %v", method, path, err)
}
