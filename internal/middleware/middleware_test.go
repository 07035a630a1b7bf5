package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("expected a generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Error("response header does not match the id seen by the handler")
	}
}

func TestRequestIDHonorsCaller(t *testing.T) {
	h := RequestID(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "caller-supplied" {
		t.Errorf("request id = %q, want caller-supplied", got)
	}
}

func TestCompressionPrefersBrotli(t *testing.T) {
	h := Compression(okHandler(`{"hello":"world"}`))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	if err != nil {
		t.Fatalf("decoding brotli body: %v", err)
	}
	if string(body) != `{"hello":"world"}` {
		t.Errorf("body = %q", body)
	}
}

func TestCompressionFallsBackToGzip(t *testing.T) {
	h := Compression(okHandler(`{"hello":"world"}`))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("opening gzip body: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decoding gzip body: %v", err)
	}
	if string(body) != `{"hello":"world"}` {
		t.Errorf("body = %q", body)
	}
}

func TestCompressionPassthrough(t *testing.T) {
	h := Compression(okHandler(`{"hello":"world"}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want none", got)
	}
	if rec.Body.String() != `{"hello":"world"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestETagRoundTrip(t *testing.T) {
	h := ETag(okHandler(`{"a":1}`))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Errorf("304 body = %q, want empty", second.Body.String())
	}
}

func TestETagChangesWithBody(t *testing.T) {
	a := httptest.NewRecorder()
	ETag(okHandler(`{"a":1}`)).ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/", nil))
	b := httptest.NewRecorder()
	ETag(okHandler(`{"a":2}`)).ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/", nil))

	if a.Header().Get("ETag") == b.Header().Get("ETag") {
		t.Error("different bodies must hash to different ETags")
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(okHandler("{}"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}

	// no HSTS on plain HTTP
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security = %q, want unset without TLS", got)
	}
}

func TestLimitRequestBody(t *testing.T) {
	h := LimitRequestBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	big := strings.NewReader(strings.Repeat("x", maxRequestBody+1))
	req := httptest.NewRequest(http.MethodPost, "/", big)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want oversized body rejected", rec.Code)
	}

	small := strings.NewReader(`{"date":"2024-07-04"}`)
	req = httptest.NewRequest(http.MethodPost, "/", small)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want small body accepted", rec.Code)
	}

	// GET bodies are left alone
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d on GET, want 200", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler("{}"))

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow-origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allowed methods on preflight")
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want none", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, request itself must still be served", rec.Code)
	}
}

func TestCORSWildcardSubdomain(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*.scorebook.dev"}
	h := CORS(cfg)(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set("Origin", "https://app.scorebook.dev")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.scorebook.dev" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1000, 1000, 1, 2)
	defer rl.Stop()
	h := rl.Limit(okHandler("{}"))

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:55555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests = %v, first two must pass", statuses)
	}
	if statuses[3] != http.StatusTooManyRequests {
		t.Errorf("statuses = %v, want 429 once the burst is spent", statuses)
	}

	// a different client gets its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:55555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh client status = %d, want 200", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		remote string
		want   string
	}{
		{"x-forwarded-for single", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.7") }, "10.0.0.1:80", "203.0.113.7"},
		{"x-forwarded-for chain", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2") }, "10.0.0.1:80", "203.0.113.7"},
		{"x-real-ip", func(r *http.Request) { r.Header.Set("X-Real-IP", "203.0.113.9") }, "10.0.0.1:80", "203.0.113.9"},
		{"remote addr", func(r *http.Request) {}, "192.0.2.4:1234", "192.0.2.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)
			if got := getClientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
