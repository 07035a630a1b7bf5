package apierr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onnwee/scorebook/backend/internal/logger"
)

func TestHelperStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code ErrorCode
		want int
	}{
		{"invalid date", ScheduleInvalidDate(""), ErrScheduleInvalidDate, http.StatusBadRequest},
		{"invalid id", GameInvalidID(""), ErrGameInvalidID, http.StatusBadRequest},
		{"not found", GameNotFound("x"), ErrGameNotFound, http.StatusNotFound},
		{"upstream down", UpstreamUnavailable(""), ErrUpstreamUnavailable, http.StatusBadGateway},
		{"upstream timeout", UpstreamTimeout(), ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{"bad scope", CacheInvalidScope("x"), ErrCacheInvalidScope, http.StatusBadRequest},
		{"internal", SystemInternal(""), ErrSystemInternal, http.StatusInternalServerError},
		{"unavailable", SystemUnavailable(""), ErrSystemUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimitIP(), ErrRateLimitIP, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Status() != tt.want {
				t.Errorf("status = %d, want %d", tt.err.Status(), tt.want)
			}
			if tt.err.Message == "" {
				t.Error("helpers must fill in a default message")
			}
		})
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, GameNotFound("2024-07-04-NYY-BOS-1"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrGameNotFound {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Error.Details["game_id"] != "2024-07-04-NYY-BOS-1" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestWriteErrorWithContextAttachesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), logger.RequestIDKey, "req-123")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	WriteErrorWithContext(rec, req, SystemInternal(""))

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("request id = %q, want req-123", resp.Error.RequestID)
	}
}

func TestErrorString(t *testing.T) {
	err := New(ErrGameFailed, "boom", http.StatusBadGateway)
	if got := err.Error(); got != "GAME_FETCH_FAILED: boom" {
		t.Errorf("Error() = %q", got)
	}
}
