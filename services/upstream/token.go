package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"slotfinder/utils"

	"go.uber.org/zap"
)

// ErrAuth means no access token could be obtained.
var ErrAuth = errors.New("upstream authentication failed")

// tokenEarlyRefresh is how long before the upstream expiry a token stops being reused.
const tokenEarlyRefresh = 5 * time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenSource owns the cached client-credentials token. Concurrent refreshes
// are tolerated; the last one to finish wins.
type TokenSource struct {
	client *Client
	cache  *utils.Expiring[string]
	logger *zap.Logger
}

func NewTokenSource(client *Client, logger *zap.Logger) *TokenSource {
	return &TokenSource{client: client, cache: utils.NewExpiring[string](), logger: logger}
}

// Token returns the cached token or fetches a fresh one.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := ts.cache.Get(); ok {
		return tok, nil
	}
	return ts.Refresh(ctx)
}

// Refresh always fetches a new token and stores it.
func (ts *TokenSource) Refresh(ctx context.Context) (string, error) {
	ts.logger.Info("upstream: requesting fresh access token")
	cfg := ts.client.cfg
	body := map[string]string{
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
	}

	var resp tokenResponse
	if err := ts.client.do(ctx, http.MethodPost, cfg.AuthURL, "", body, &resp); err != nil {
		ts.logger.Error("upstream: token request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	ttl := time.Duration(resp.ExpiresIn)*time.Second - tokenEarlyRefresh
	if ttl < 0 {
		ttl = 0
	}
	ts.cache.Set(resp.AccessToken, ttl)
	return resp.AccessToken, nil
}

// Ping checks that a token can be obtained.
func (ts *TokenSource) Ping(ctx context.Context) error {
	_, err := ts.Token(ctx)
	return err
}
