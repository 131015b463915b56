package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient posts calculations to a history service at <base>/api/history.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the service at baseURL
// (e.g. "http://localhost:5000").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type historyRequest struct {
	Source     string  `json:"source"`
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

// Report sends one calculation. Any non-2xx status is an error.
func (c *HTTPClient) Report(ctx context.Context, source, expression string, result float64) error {
	body, err := json.Marshal(historyRequest{Source: source, Expression: expression, Result: result})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/history", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post calculation: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("history service returned %s", resp.Status)
	}
	return nil
}
