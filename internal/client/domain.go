// Package client holds the HTTP clients for the external domain services
// and for the advisor API itself.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DomainClient calls the external domain services (compliance scoring,
// tasks, reports, notifications) over their uniform tool-call endpoint.
type DomainClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDomainClient creates a domain service client.
func NewDomainClient(baseURL string) *DomainClient {
	return &DomainClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type domainCallRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type domainCallResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// Call invokes one domain service method. A non-2xx status or an error
// field in the body both surface as errors so the dispatcher can isolate
// the failure per tool.
func (c *DomainClient) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(domainCallRequest{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode domain call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/call", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build domain call: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("call %s: status %d", method, resp.StatusCode)
	}

	var out domainCallResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("call %s: %s", method, out.Error)
	}
	return out.Result, nil
}
