package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// userAgent identifies this client to the storefront API.
const userAgent = "ynotnow-storefront/1.0"

// Config holds the storefront API credentials.
type Config struct {
	// StoreDomain is the shop host, e.g. "ynotnow.myshopify.com". A value
	// with an explicit scheme is used as the base URL unchanged.
	StoreDomain string
	AccessToken string
	APIVersion  string
	HTTPClient  *http.Client
	Logger      *log.Logger
}

// Client talks to the hosted commerce backend over its GraphQL endpoint.
// It holds no per-shopper state; cart ids and customer tokens are passed in.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *log.Logger
}

// New creates a Client with the given configuration.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errors.New("store domain is required")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("storefront access token is required")
	}
	version := cfg.APIVersion
	if version == "" {
		version = "2024-10"
	}
	base := strings.TrimSuffix(cfg.StoreDomain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("%s/api/%s/graphql.json", base, version),
		token:      cfg.AccessToken,
		logger:     logger,
	}, nil
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// do executes one GraphQL operation and decodes its data payload into out.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]interface{}, out interface{}) error {
	start := time.Now()
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("gateway %s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway %s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("gateway: op=%s error=%v", op, err)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		c.logger.Printf("gateway: op=%s status=%d", op, resp.StatusCode)
		return &Error{Op: op, Status: resp.StatusCode, Messages: errorMessages(raw)}
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.logger.Printf("gateway: op=%s malformed response error=%v", op, err)
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		c.logger.Printf("gateway: op=%s graphql errors=%q", op, msgs)
		return &Error{Op: op, Status: resp.StatusCode, Messages: msgs}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	c.logger.Printf("gateway: op=%s duration=%s", op, time.Since(start).Truncate(time.Millisecond))
	return nil
}

// errorMessages makes a best-effort attempt to pull messages out of an
// error body; the gateway does not always answer with GraphQL JSON.
func errorMessages(raw []byte) []string {
	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Errors) > 0 {
		out := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			out = append(out, e.Message)
		}
		return out
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return nil
	}
	return []string{text}
}
