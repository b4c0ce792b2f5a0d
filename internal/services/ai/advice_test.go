package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/config"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

func TestFallbackMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrEmptyResponse, NotAvailableMessage},
		{ErrSafetyViolation, NotAvailableMessage},
		{fmt.Errorf("wrapped: %w", ErrEmptyResponse), NotAvailableMessage},
		{ErrAIProviderUnavailable, TechnicalFailureMessage},
		{ErrRateLimitExceeded, TechnicalFailureMessage},
		{ErrAINotConfigured, TechnicalFailureMessage},
		{errors.New("connection reset"), TechnicalFailureMessage},
	}
	for _, tt := range tests {
		if got := FallbackMessage(tt.err); got != tt.want {
			t.Errorf("FallbackMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGenerateAdvice_ReturnsText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeGeminiResponse(t, w, geminiResponse{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "**सुझाव**"}}},
		}}})
	}, nil)

	got := svc.GenerateAdvice(context.Background(), AdviceRequest{
		SessionID: uuid.New(),
		Category:  models.CategoryImmunity,
		Details:   models.UserDetails{Age: "40", Gender: models.GenderMale},
	})
	if got != "**सुझाव**" {
		t.Errorf("expected provider text, got %q", got)
	}
}

func TestGenerateAdvice_Fallbacks(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, nil)
		got := svc.GenerateAdvice(context.Background(), AdviceRequest{SessionID: uuid.New(), Category: models.CategorySleep})
		if got != TechnicalFailureMessage {
			t.Errorf("expected technical failure message, got %q", got)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeGeminiResponse(t, w, geminiResponse{})
		}, nil)
		got := svc.GenerateAdvice(context.Background(), AdviceRequest{SessionID: uuid.New(), Category: models.CategorySleep})
		if got != NotAvailableMessage {
			t.Errorf("expected not available message, got %q", got)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewService(&config.Config{}, nil)
		got := svc.GenerateAdvice(context.Background(), AdviceRequest{SessionID: uuid.New(), Category: models.CategorySleep})
		if got != TechnicalFailureMessage {
			t.Errorf("expected technical failure message, got %q", got)
		}
	})
}

func TestGenerateAdvice_CustomQueryIsTopic(t *testing.T) {
	svc := NewService(&config.Config{AI: config.AIConfig{Stub: true}}, nil)
	got := svc.GenerateAdvice(context.Background(), AdviceRequest{
		SessionID:   uuid.New(),
		Category:    models.CategoryCustom,
		CustomQuery: "सिरदर्द",
	})
	if !strings.Contains(got, "सिरदर्द") {
		t.Errorf("expected custom query as topic in stub advice, got %q", got)
	}
}

func TestGenerateAdvice_TemperatureOverride(t *testing.T) {
	zero, hot := 0.0, 1.2
	tests := []struct {
		name     string
		override *float64
		want     float64
	}{
		{"unset keeps prompt temperature", nil, DefaultTemperature},
		{"explicit zero", &zero, 0},
		{"explicit value", &hot, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got float64
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				var req geminiRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				got = req.GenerationConfig.Temperature
				writeGeminiResponse(t, w, geminiResponse{Candidates: []geminiCandidate{{
					Content: geminiContent{Parts: []geminiPart{{Text: "ok"}}},
				}}})
			}, nil)
			svc.temperature = tt.override

			svc.GenerateAdvice(context.Background(), AdviceRequest{
				SessionID: uuid.New(),
				Category:  models.CategorySleep,
				Details:   models.UserDetails{Age: "30", Gender: models.GenderMale},
			})
			if got != tt.want {
				t.Errorf("expected temperature %v, got %v", tt.want, got)
			}
		})
	}
}
