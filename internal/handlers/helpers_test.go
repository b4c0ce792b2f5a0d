package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/services/ai"
	"github.com/HammerMeetNail/swasthyasaathi/internal/session"
)

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d", status, rr.Code)
	}
	if ct := rr.Result().Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected content type application/json, got %q", ct)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Error != message {
		t.Fatalf("expected error %q, got %q", message, response.Error)
	}
}

func fixedAdvice(text string) session.GeneratorFunc {
	return func(ctx context.Context, req ai.AdviceRequest) (string, error) {
		return text, nil
	}
}

func newTestSessions(t *testing.T, gen session.Generator) (*session.Controller, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(100, time.Hour)
	return session.NewController(store, gen, time.Minute), store
}

func withSession(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(SetSessionIDInContext(req.Context(), id))
}

// serve runs h the way the middleware chain would: session in context and
// the CSRF token already published on the response.
func serve(h http.HandlerFunc, req *http.Request, id uuid.UUID) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	rr.Header().Set(csrfHeaderName, "test-csrf-token")
	h(rr, withSession(req, id))
	return rr
}
