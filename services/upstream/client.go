// Package upstream talks to the salon platform's public API: client
// credential tokens, the employee roster and the openings scan.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"slotfinder/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config carries the endpoints and identifiers of one tenant.
type Config struct {
	AuthURL      string
	APIURL       string
	APIURLV2     string
	ClientID     string
	ClientSecret string
	TenantID     string
	LocationID   string
	Timeout      time.Duration
	RPS          float64
	Burst        int
	Location     *time.Location
	Logger       *zap.Logger
}

// ConfigFromApp builds a Config from the loaded application config.
func ConfigFromApp(c config.Config) Config {
	return Config{
		AuthURL:      c.AuthURL,
		APIURL:       c.APIURL,
		APIURLV2:     c.APIURLV2,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TenantID:     c.TenantID,
		LocationID:   c.LocationID,
		Timeout:      c.UpstreamTimeout,
		RPS:          c.UpstreamRPS,
		Burst:        c.UpstreamBurst,
		Location:     config.Location(),
	}
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) Config() Config {
	return c.cfg
}

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, url, token string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("upstream rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, URL: url, Status: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}
