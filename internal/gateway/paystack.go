package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Paystack REST API. Every call carries a bounded
// timeout; a hung gateway must not hang a request handler.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
	}
}

type Metadata struct {
	PermitID int `json:"permit_id"`
	OwnerID  int `json:"owner_id"`
}

type InitializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"` // kobo
	Reference   string   `json:"reference"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

type InitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (c *Client) InitializeTransaction(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("initialize request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read initialize response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, raw)
	}

	var result InitializeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse initialize response: %w", err)
	}
	if !result.Status {
		return nil, fmt.Errorf("gateway rejected initialization: %s", result.Message)
	}
	return &result, nil
}
