// Package backend adapts the conversational-AI backend's HTTP API to the
// domain.BackendClient port.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mindwell/supportchat/internal/domain"
)

// Client talks JSON to the backend's session endpoints:
//
//	POST {base}/session/start
//	POST {base}/session/respond
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// StartSession implements domain.BackendClient.
func (c *Client) StartSession(ctx context.Context, req domain.StartRequest) (*domain.StartResponse, error) {
	var resp domain.StartResponse
	if err := c.postJSON(ctx, "/session/start", req, &resp); err != nil {
		return nil, fmt.Errorf("backend start: %w", err)
	}
	return &resp, nil
}

// Exchange implements domain.BackendClient.
func (c *Client) Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResponse, error) {
	var resp domain.ExchangeResponse
	if err := c.postJSON(ctx, "/session/respond", req, &resp); err != nil {
		return nil, fmt.Errorf("backend respond: %w", err)
	}
	return &resp, nil
}

// errorBody is the backend's error envelope. Only Message is relied on.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, eb.Message)
		}
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
