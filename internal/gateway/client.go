package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource supplies the current session credential, empty when guest.
type TokenSource interface {
	Token() string
}

type response struct {
	status int
	body   []byte
}

// Client is the shared HTTP plumbing under the basket and order gateways:
// base URL joining, JSON codec, bearer auth, tracing transport and a circuit
// breaker. Only transport failures count against the breaker; HTTP error
// statuses are application results, not breaker failures.
type Client struct {
	base    string
	httpc   *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[response]
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:  tokens,
		breaker: breaker,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.breaker.Execute(func() (response, error) {
		httpResp, doErr := c.httpc.Do(req)
		if doErr != nil {
			return response{}, doErr
		}
		defer httpResp.Body.Close()

		data, readErr := io.ReadAll(httpResp.Body)
		if readErr != nil {
			return response{}, readErr
		}
		return response{status: httpResp.StatusCode, body: data}, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		return fmt.Errorf("%s %s: %s: %w", method, path, serverMessage(resp.body), ErrUnauthorized)
	}
	if resp.status >= 400 {
		return &APIError{Status: resp.status, Message: serverMessage(resp.body)}
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return fmt.Errorf("decode response failed: %w", err)
		}
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error payload. The
// backend uses both {"error": ...} and {"message": ...} shapes.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "request failed"
}
