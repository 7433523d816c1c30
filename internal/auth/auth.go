// Package auth supplies bearer tokens for backend calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-dashboard/internal/config"
	"github.com/samvad-hq/samvad-dashboard/internal/logger"
	"github.com/samvad-hq/samvad-dashboard/internal/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNoToken is returned when no credential source is configured.
var ErrNoToken = errors.New("no access token configured")

// DefaultSkew is subtracted from a token's expiry before it is reused from cache.
const DefaultSkew = 30 * time.Second

// TokenSource yields the bearer token attached to backend requests. An empty
// token with a nil error means requests go out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Invalidator is implemented by sources that can forget a rejected token.
type Invalidator interface {
	Invalidate() error
}

// Static always returns the same token.
type Static string

// Token returns the configured value.
func (s Static) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Auth0 fetches machine-to-machine tokens with the client credentials grant.
type Auth0 struct {
	cfg clientcredentials.Config
}

// NewAuth0 builds a client credentials source for the given tenant domain.
func NewAuth0(domain, clientID, clientSecret, audience string) *Auth0 {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     domain + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if audience != "" {
		cfg.EndpointParams = map[string][]string{"audience": {audience}}
	}
	return &Auth0{cfg: cfg}
}

// TokenURL reports the endpoint tokens are requested from.
func (a *Auth0) TokenURL() string { return a.cfg.TokenURL }

// Fetch requests a fresh token from the tenant.
func (a *Auth0) Fetch(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth0 token: %w", err)
	}
	return tok, nil
}

// Token implements TokenSource.
func (a *Auth0) Token(ctx context.Context) (string, error) {
	tok, err := a.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Fetcher returns a full token including its expiry.
type Fetcher interface {
	Fetch(ctx context.Context) (*oauth2.Token, error)
}

// Cached keeps fetched tokens in a Store until shortly before they expire.
type Cached struct {
	src  Fetcher
	st   storage.Store
	key  string
	skew time.Duration
	log  logger.Logger
}

// NewCached wraps src with a token cache stored under key.
func NewCached(src Fetcher, st storage.Store, key string, log logger.Logger) *Cached {
	return &Cached{src: src, st: st, key: key, skew: DefaultSkew, log: logger.Ensure(log)}
}

// Token returns a cached token when one is still valid, fetching otherwise.
// Cache failures are logged and never fail the call.
func (c *Cached) Token(ctx context.Context) (string, error) {
	if c.st != nil {
		tok, ok, err := c.st.Get(c.key)
		if err != nil {
			c.log.WarnObj("token cache read failed", "token_cache", map[string]any{"key": c.key, "error": err.Error()})
		} else if ok {
			return tok, nil
		}
	}

	tok, err := c.src.Fetch(ctx)
	if err != nil {
		return "", err
	}

	if c.st != nil && !tok.Expiry.IsZero() {
		ttl := time.Until(tok.Expiry) - c.skew
		if ttl > 0 {
			if err := c.st.Put(c.key, tok.AccessToken, ttl); err != nil {
				c.log.WarnObj("token cache write failed", "token_cache", map[string]any{"key": c.key, "error": err.Error()})
			}
		}
	}
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (c *Cached) Invalidate() error {
	if c.st == nil {
		return nil
	}
	return c.st.Delete(c.key)
}

// FromConfig picks the token source described by cfg. Auth0 credentials take
// precedence over a static API_TOKEN; with neither, requests are anonymous.
func FromConfig(cfg *config.Config, st storage.Store, log logger.Logger) TokenSource {
	if cfg == nil {
		return Static("")
	}
	if cfg.UsesAuth0() {
		src := NewAuth0(cfg.Auth0Domain, cfg.Auth0ClientID, cfg.Auth0ClientSecret, cfg.Auth0Audience)
		return NewCached(src, st, cacheKey(cfg), log)
	}
	return Static(cfg.APIToken)
}

func cacheKey(cfg *config.Config) string {
	return "auth0:" + strings.TrimSpace(cfg.Auth0Domain) + ":" + cfg.Auth0ClientID + ":" + cfg.Auth0Audience
}
