package keys

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func serveJWKS(t *testing.T, kid string, pub *rsa.PublicKey, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"kid": kid,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestKeyFetchAndCache(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int64
	srv := serveJWKS(t, "k1", &priv.PublicKey, &hits)

	c := New(srv.URL)
	ctx := context.Background()

	got, err := c.Key(ctx, "k1")
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if got.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatal("returned key does not match served key")
	}

	// second lookup within the TTL must not refetch
	if _, err := c.Key(ctx, "k1"); err != nil {
		t.Fatalf("Key (cached): %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one fetch, got %d", n)
	}
}

func TestKeyUnknownKid(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	srv := serveJWKS(t, "k1", &priv.PublicKey, nil)

	c := New(srv.URL)
	if _, err := c.Key(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown kid")
	}
}

func TestKeyEmptyKidReturnsAnyKey(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	srv := serveJWKS(t, "k1", &priv.PublicKey, nil)

	c := New(srv.URL)
	if _, err := c.Key(context.Background(), ""); err != nil {
		t.Fatalf("Key with empty kid: %v", err)
	}
}

func TestRefreshAfterTTL(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int64
	srv := serveJWKS(t, "k1", &priv.PublicKey, &hits)

	c := New(srv.URL, WithTTL(time.Nanosecond))
	ctx := context.Background()

	if _, err := c.Key(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.Key(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n < 2 {
		t.Fatalf("expected a refresh after TTL, got %d fetches", n)
	}
}

func TestStaleKeysServedOnFetchFailure(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	var fail atomic.Bool
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"kid": "k1",
			"n":   base64.RawURLEncoding.EncodeToString(priv.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(priv.PublicKey.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithTTL(time.Nanosecond))
	ctx := context.Background()

	if _, err := c.Key(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	fail.Store(true)
	time.Sleep(time.Millisecond)

	// refresh fails but the stale key is still usable
	if _, err := c.Key(ctx, "k1"); err != nil {
		t.Fatalf("expected stale key to be served, got %v", err)
	}
}
