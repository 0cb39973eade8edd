// Package keys caches the identity provider JWKS used to verify RS256 tokens.
//
// Keys are fetched lazily and re-fetched once the cache entry is older than
// its TTL. A fetch failure keeps serving the stale set so transient provider
// outages do not lock everyone out.
package keys

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	perr "pincast/internal/platform/errors"
)

// DefaultTTL is how long a fetched key set stays fresh
const DefaultTTL = time.Hour

// jwk is the subset of RFC 7517 we care about
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// Cache is a TTL cache over one JWKS endpoint
type Cache struct {
	url    string
	ttl    time.Duration
	client *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// Option mutates a Cache during construction
type Option func(*Cache)

// WithTTL overrides the default freshness window
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithClient overrides the HTTP client used for fetches
func WithClient(h *http.Client) Option {
	return func(c *Cache) { c.client = h }
}

// New constructs a Cache for the given JWKS URL
func New(url string, opts ...Option) *Cache {
	c := &Cache{
		url:    url,
		ttl:    DefaultTTL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key returns the RSA public key for kid, refreshing the set when stale.
// An empty kid returns any available key, matching providers that sign with
// a single unrotated key and omit the header.
func (c *Cache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if err := c.RefreshIfStale(ctx); err != nil {
		c.mu.RLock()
		empty := len(c.keys) == 0
		c.mu.RUnlock()
		if empty {
			return nil, err
		}
		// stale keys beat no keys
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if kid == "" {
		for _, k := range c.keys {
			return k, nil
		}
		return nil, perr.Unauthorizedf("no signing keys available")
	}
	k, ok := c.keys[kid]
	if !ok {
		return nil, perr.Unauthorizedf("unknown signing key %q", kid)
	}
	return k, nil
}

// RefreshIfStale fetches the key set when it is missing or older than the TTL
func (c *Cache) RefreshIfStale(ctx context.Context) error {
	c.mu.RLock()
	fresh := c.keys != nil && time.Since(c.fetchedAt) <= c.ttl
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// re-check under the write lock, another goroutine may have refreshed
	if c.keys != nil && time.Since(c.fetchedAt) <= c.ttl {
		return nil
	}

	set, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	c.keys = set
	c.fetchedAt = time.Now()
	return nil
}

func (c *Cache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch: status %d", resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}

	out := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		pub, err := parseRSA(k)
		if err != nil {
			continue
		}
		out[k.Kid] = pub
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("jwks decode: no usable RSA keys")
	}
	return out, nil
}

func parseRSA(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("jwk modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("jwk exponent: %w", err)
	}
	e := 0
	for _, b := range eb {
		e = e<<8 | int(b)
	}
	if e <= 1 {
		return nil, fmt.Errorf("jwk exponent: out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
