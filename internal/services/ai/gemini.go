package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/HammerMeetNail/swasthyasaathi/internal/config"
	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/metrics"
)

var geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Execer is the subset of a pgx pool used for usage logging.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Service struct {
	apiKey        string
	model         string
	temperature   *float64
	stub          bool
	debug         bool
	debugMaxChars int
	environment   string
	client        *http.Client
	db            Execer
}

// NewService builds the Gemini-backed advice service. db may be nil, in which
// case usage is not recorded.
func NewService(cfg *config.Config, db Execer) *Service {
	timeout := cfg.AI.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	model := cfg.AI.GeminiModel
	if model == "" {
		model = "gemini-3-pro-preview"
	}
	return &Service{
		apiKey:        cfg.AI.GeminiAPIKey,
		model:         model,
		temperature:   cfg.AI.GeminiTemperature,
		stub:          cfg.AI.Stub,
		debug:         cfg.Server.Debug,
		debugMaxChars: cfg.Server.DebugMaxChars,
		environment:   cfg.Server.Environment,
		client:        &http.Client{Timeout: timeout},
		db:            db,
	}
}

type UsageStats struct {
	Model        string
	TokensInput  int
	TokensOutput int
	Duration     time.Duration
}

// Gemini API Request/Response structs

type geminiRequest struct {
	Contents          []geminiContent          `json:"contents"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig"`
	SafetySettings    []geminiSafetySetting    `json:"safetySettings"`
	SystemInstruction *geminiSystemInstruction `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	Usage          geminiUsage           `json:"usageMetadata"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type geminiCandidate struct {
	Content       geminiContent        `json:"content"`
	FinishReason  string               `json:"finishReason"`
	SafetyRatings []geminiSafetyRating `json:"safetyRatings"`
}

type geminiSafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Blocked     bool   `json:"blocked"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Generate sends one prompt to Gemini and returns the Markdown text of the
// first candidate. It never retries.
func (s *Service) Generate(ctx context.Context, sessionID uuid.UUID, category string, prompt Prompt) (string, UsageStats, error) {
	start := time.Now()

	if s.stub {
		text := stubAdvice(prompt.Topic)
		stats := UsageStats{Model: "stub", Duration: time.Since(start)}
		s.record(sessionID, category, stats, "success")
		return text, stats, nil
	}

	if strings.TrimSpace(s.apiKey) == "" {
		logging.Warn("Gemini API key missing; advice generation unavailable", map[string]interface{}{
			"session_id": sessionID.String(),
		})
		return "", UsageStats{}, ErrAINotConfigured
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: prompt.System}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt.User}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature: prompt.Temperature,
		},
		SafetySettings: []geminiSafetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", UsageStats{}, fmt.Errorf("%w: failed to marshal request", ErrAIProviderUnavailable)
	}

	// Request metadata only; the topic may contain user-provided health details.
	logging.Info("Sending advice request to Gemini", map[string]interface{}{
		"session_id":    sessionID.String(),
		"model":         s.model,
		"category":      category,
		"prompt_length": len(prompt.User),
	})
	if s.debug && s.environment == "development" {
		logging.Debug("Gemini advice prompt", map[string]interface{}{
			"session_id":   sessionID.String(),
			"user_message": truncateForLog(prompt.User, s.debugMaxChars),
			"temperature":  prompt.Temperature,
		})
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", UsageStats{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.record(sessionID, category, UsageStats{Model: s.model, Duration: time.Since(start)}, "error")
		return "", UsageStats{}, fmt.Errorf("%w: %v", ErrAIProviderUnavailable, err)
	}
	defer func() {
		// Drain and close the body to ensure connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.record(sessionID, category, UsageStats{Model: s.model, Duration: time.Since(start)}, "error")

		if resp.StatusCode == http.StatusTooManyRequests {
			return "", UsageStats{}, fmt.Errorf("%w: status %d", ErrRateLimitExceeded, resp.StatusCode)
		}

		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		if len(bodyBytes) > 0 {
			logging.Error("Gemini non-200 response", map[string]interface{}{
				"session_id": sessionID.String(),
				"status":     resp.StatusCode,
				"body":       string(bodyBytes),
			})
		} else if dump, dumpErr := httputil.DumpResponse(resp, false); dumpErr == nil {
			logging.Error("Gemini non-200 response (headers only)", map[string]interface{}{
				"session_id": sessionID.String(),
				"status":     resp.StatusCode,
				"dump":       string(dump),
			})
		}

		return "", UsageStats{}, fmt.Errorf("%w: status %d", ErrAIProviderUnavailable, resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		s.record(sessionID, category, UsageStats{Model: s.model, Duration: time.Since(start)}, "error")
		return "", UsageStats{}, fmt.Errorf("%w: failed to decode response", ErrAIProviderUnavailable)
	}

	stats := UsageStats{
		Model:        s.model,
		TokensInput:  geminiResp.Usage.PromptTokenCount,
		TokensOutput: geminiResp.Usage.CandidatesTokenCount,
		Duration:     time.Since(start),
	}

	if len(geminiResp.Candidates) == 0 {
		if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
			s.record(sessionID, category, stats, "safety_block")
			return "", stats, ErrSafetyViolation
		}
		s.record(sessionID, category, stats, "empty")
		return "", stats, ErrEmptyResponse
	}

	candidate := geminiResp.Candidates[0]
	text := candidateText(candidate)
	if strings.TrimSpace(text) == "" {
		if candidate.FinishReason == "SAFETY" {
			s.record(sessionID, category, stats, "safety_block")
			return "", stats, ErrSafetyViolation
		}
		s.record(sessionID, category, stats, "empty")
		return "", stats, ErrEmptyResponse
	}

	logging.Info("Received advice from Gemini", map[string]interface{}{
		"session_id":      sessionID.String(),
		"response_length": len(text),
		"finish_reason":   candidate.FinishReason,
		"tokens_total":    geminiResp.Usage.TotalTokenCount,
	})
	if s.debug && s.environment == "development" {
		logging.Debug("Gemini advice response", map[string]interface{}{
			"session_id":       sessionID.String(),
			"response_preview": truncateForLog(text, s.debugMaxChars),
		})
	}

	s.record(sessionID, category, stats, "success")
	return text, stats, nil
}

func candidateText(c geminiCandidate) string {
	var b strings.Builder
	for _, p := range c.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (s *Service) record(sessionID uuid.UUID, category string, stats UsageStats, status string) {
	metrics.AdviceGenerations.WithLabelValues(category, status).Inc()
	metrics.AdviceDuration.WithLabelValues(status).Observe(stats.Duration.Seconds())
	s.logUsageWithTimeout(sessionID, category, stats, status)
}

func (s *Service) logUsage(ctx context.Context, sessionID uuid.UUID, category string, stats UsageStats, status string) {
	if s.db == nil {
		return
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO advice_logs (id, session_id, category, model, tokens_input, tokens_output, duration_ms, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, uuid.New(), sessionID, category, stats.Model, stats.TokensInput, stats.TokensOutput, stats.Duration.Milliseconds(), status)

	if err != nil {
		logging.Error("Failed to log advice usage", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionID.String(),
		})
	}
}

func (s *Service) logUsageWithTimeout(sessionID uuid.UUID, category string, stats UsageStats, status string) {
	if s.db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.logUsage(ctx, sessionID, category, stats, status)
}

func truncateForLog(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
