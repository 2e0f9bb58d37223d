package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/darmiel/ordergate/internal/audit"
	"github.com/darmiel/ordergate/internal/core"
)

// countingVerifier accepts a single token and counts Verify invocations.
type countingVerifier struct {
	accept string
	claims map[string]any
	calls  int
}

func (v *countingVerifier) Name() string { return "counting" }

func (v *countingVerifier) Verify(_ context.Context, credential string) (*core.Identity, error) {
	v.calls++
	if credential != v.accept {
		return nil, fmt.Errorf("verification failed")
	}
	return &core.Identity{
		Subject:   "jane",
		Verifier:  "counting",
		ExpiresAt: time.Now().Add(time.Hour),
		Claims:    v.claims,
	}, nil
}

func TestExtractCredential(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		cookie     string
		wantCred   string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "Header Only",
			header:     "Bearer tok-header",
			wantCred:   "tok-header",
			wantSource: SourceHeader,
		},
		{
			name:       "Cookie Only",
			cookie:     "tok-cookie",
			wantCred:   "tok-cookie",
			wantSource: SourceCookie,
		},
		{
			name:       "Header Wins Over Cookie",
			header:     "Bearer tok-header",
			cookie:     "tok-cookie",
			wantCred:   "tok-header",
			wantSource: SourceHeader,
		},
		{
			name:       "Malformed Header Falls Back To Cookie",
			header:     "Basic dXNlcjpwYXNz",
			cookie:     "tok-cookie",
			wantCred:   "tok-cookie",
			wantSource: SourceCookie,
		},
		{
			name:    "No Credential",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/hello", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}

			cred, source, err := ExtractCredential(r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got credential %q", cred)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cred != tt.wantCred {
				t.Errorf("credential = %q, want %q", cred, tt.wantCred)
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
		})
	}
}

func gateThrough(t *testing.T, verifier core.Verifier, opts GateOptions, r *http.Request) (*httptest.ResponseRecorder, *core.Identity) {
	t.Helper()

	var captured *core.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = IdentityCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	Auth(verifier, audit.NewNoopAuditor(), opts)(next).ServeHTTP(w, r)
	return w, captured
}

func TestAuth_NoCredentialShortCircuits(t *testing.T) {
	verifier := &countingVerifier{accept: "valid"}

	r := httptest.NewRequest("GET", "/v1/hello", nil)
	w, identity := gateThrough(t, verifier, GateOptions{RouteName: "hello"}, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if body := w.Body.String(); body != "Unauthorized" {
		t.Errorf("body = %q, want %q", body, "Unauthorized")
	}
	if verifier.calls != 0 {
		t.Errorf("verifier called %d times, want 0", verifier.calls)
	}
	if identity != nil {
		t.Errorf("handler ran with identity %+v, want no handler invocation", identity)
	}
}

func TestAuth_InvalidCredential(t *testing.T) {
	verifier := &countingVerifier{accept: "valid"}

	r := httptest.NewRequest("GET", "/v1/hello", nil)
	r.Header.Set("Authorization", "Bearer expired")

	w, identity := gateThrough(t, verifier, GateOptions{RouteName: "hello"}, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if body := w.Body.String(); body != "Unauthorized" {
		t.Errorf("body = %q, want %q", body, "Unauthorized")
	}
	if verifier.calls != 1 {
		t.Errorf("verifier called %d times, want 1", verifier.calls)
	}
	if identity != nil {
		t.Errorf("handler must not run on rejection")
	}
}

func TestAuth_AttachesVerifierIdentityUnmodified(t *testing.T) {
	claims := map[string]any{
		"sub":            "jane",
		"email":          "jane@example.com",
		"email_verified": true,
	}
	verifier := &countingVerifier{accept: "valid", claims: claims}

	r := httptest.NewRequest("GET", "/v1/hello", nil)
	r.Header.Set("Authorization", "Bearer valid")

	w, identity := gateThrough(t, verifier, GateOptions{RouteName: "hello"}, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if identity == nil {
		t.Fatal("no identity attached to request context")
	}
	if diff := cmp.Diff(claims, identity.Claims); diff != "" {
		t.Errorf("claims mismatch (-want +got):\n%s", diff)
	}
}

func TestAuth_HeaderTakesPrecedenceOverInvalidCookie(t *testing.T) {
	verifier := &countingVerifier{accept: "valid", claims: map[string]any{"sub": "jane"}}

	r := httptest.NewRequest("GET", "/v1/hello", nil)
	r.Header.Set("Authorization", "Bearer valid")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	w, identity := gateThrough(t, verifier, GateOptions{RouteName: "hello"}, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if identity == nil {
		t.Fatal("expected identity from header credential")
	}
}

func TestAuth_ClaimsRequirement(t *testing.T) {
	program, err := CompileRequirement(`claims.email_verified == true`)
	if err != nil {
		t.Fatalf("compiling requirement: %v", err)
	}

	tests := []struct {
		name       string
		claims     map[string]any
		wantStatus int
	}{
		{
			name:       "Requirement Met",
			claims:     map[string]any{"sub": "jane", "email_verified": true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Requirement Not Met",
			claims:     map[string]any{"sub": "jane", "email_verified": false},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Claim Missing",
			claims:     map[string]any{"sub": "jane"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &countingVerifier{accept: "valid", claims: tt.claims}

			r := httptest.NewRequest("GET", "/v1/hello", nil)
			r.Header.Set("Authorization", "Bearer valid")

			w, _ := gateThrough(t, verifier, GateOptions{RouteName: "hello", Require: program}, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden && w.Body.String() != "Unauthorized" {
				t.Errorf("rejection body = %q, want the same opaque %q", w.Body.String(), "Unauthorized")
			}
		})
	}
}
