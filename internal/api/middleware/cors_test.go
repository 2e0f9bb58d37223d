package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	var handlerRan bool
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerRan = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Origin Reflected", func(t *testing.T) {
		handlerRan = false
		r := httptest.NewRequest("GET", "/v1/hello", nil)
		r.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()

		CORSMiddleware(next).ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
			t.Errorf("allow-origin = %q, want the request origin", got)
		}
		if got := w.Header().Get("Vary"); got != "Origin" {
			t.Errorf("vary = %q, want %q", got, "Origin")
		}
		if !handlerRan {
			t.Error("handler did not run")
		}
	})

	t.Run("No Origin", func(t *testing.T) {
		handlerRan = false
		r := httptest.NewRequest("GET", "/v1/hello", nil)
		w := httptest.NewRecorder()

		CORSMiddleware(next).ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow-origin = %q, want empty for same-origin requests", got)
		}
		if !handlerRan {
			t.Error("handler did not run")
		}
	})

	t.Run("Preflight", func(t *testing.T) {
		handlerRan = false
		r := httptest.NewRequest("OPTIONS", "/v1/hello", nil)
		r.Header.Set("Origin", "https://shop.example.com")
		r.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := httptest.NewRecorder()

		CORSMiddleware(next).ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
			t.Errorf("allow-origin = %q, want the request origin", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization" {
			t.Errorf("allow-headers = %q, want the requested headers reflected", got)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("expected allowed methods on preflight")
		}
		if handlerRan {
			t.Error("preflight must not reach the handler")
		}
	})
}
