package httpkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perrs "pincast/internal/platform/errors"
	phttp "pincast/internal/platform/net/http"
)

func TestAppPortParseAppMissingHeader(t *testing.T) {
	t.Parallel()

	p := NewAppPortFunc(func(context.Context, string) (string, string, string, error) {
		t.Fatal("parser must not run without a bearer token")
		return "", "", "", nil
	})

	r := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	_, _, _, err := p.ParseApp(r)
	if err == nil || err.Error() != "Authentication token is required" {
		t.Fatalf("err = %v, want Authentication token is required", err)
	}
	if !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("err code not unauthorized: %v", err)
	}
}

// mountIngestStub mounts a route through Protected that echoes the stamped scope
func mountIngestStub(p *AppPort) http.Handler {
	root := phttp.AdaptChi(chi.NewMux())
	Protected(root, p, func(gr Router) {
		gr.Post("/ingest", func(w http.ResponseWriter, r *http.Request) {
			uid, err := User(r)
			if err != nil {
				phttp.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			appID, err := App(r)
			if err != nil {
				phttp.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			role, _ := Role(r)
			phttp.JSON(w, http.StatusOK, map[string]string{"user": uid, "app": appID, "role": role})
		})
	})
	return root.Mux()
}

func TestProtectedWithAppPortStampsActorAndApp(t *testing.T) {
	t.Parallel()

	p := NewAppPortFunc(func(_ context.Context, token string) (string, string, string, error) {
		if token != "app-token" {
			return "", "", "", perrs.Unauthorizedf("Invalid or expired token")
		}
		return "user-1", "app-9", "player", nil
	})
	srv := mountIngestStub(p)

	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	req.Header.Set("Authorization", "Bearer app-token")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got["user"] != "user-1" || got["app"] != "app-9" || got["role"] != "player" {
		t.Fatalf("scope = %v", got)
	}
}

func TestProtectedWithAppPortRejectsBadToken(t *testing.T) {
	t.Parallel()

	p := NewAppPortFunc(func(context.Context, string) (string, string, string, error) {
		return "", "", "", perrs.Unauthorizedf("Invalid or expired token")
	})
	srv := mountIngestStub(p)

	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid or expired token") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestProtectedWithAppPortRequiresHeader(t *testing.T) {
	t.Parallel()

	p := NewAppPortFunc(func(context.Context, string) (string, string, string, error) {
		t.Fatal("parser must not run without a bearer token")
		return "", "", "", nil
	})
	srv := mountIngestStub(p)

	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authentication token is required") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
