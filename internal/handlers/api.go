package handlers

import (
	"context"
	"net/http"

	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/metrics"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/render"
	"github.com/HammerMeetNail/swasthyasaathi/internal/schema"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services/ai"
)

type SuggestionMatcher interface {
	Match(input string) []models.SuggestionItem
}

type AdviceService interface {
	GenerateAdvice(ctx context.Context, req ai.AdviceRequest) string
}

// APIHandler serves the stateless JSON endpoints.
type APIHandler struct {
	suggestions SuggestionMatcher
	advice      AdviceService
}

func NewAPIHandler(suggestions SuggestionMatcher, advice AdviceService) *APIHandler {
	return &APIHandler{suggestions: suggestions, advice: advice}
}

type CategoryView struct {
	models.CategoryInfo
	Glyph string `json:"glyph"`
}

type CategoriesResponse struct {
	Categories []CategoryView `json:"categories"`
}

type SuggestionsResponse struct {
	Suggestions []models.SuggestionItem `json:"suggestions"`
}

type AdviceInput struct {
	Category      models.HealthCategory `json:"category"`
	Details       models.UserDetails    `json:"details"`
	CustomProblem string                `json:"customProblem"`
}

type ValidateResponse struct {
	Valid  bool                    `json:"valid"`
	Errors models.ValidationErrors `json:"errors,omitempty"`
}

type AdviceResponse struct {
	Category models.HealthCategory `json:"category"`
	Result   string                `json:"result"`
	HTML     string                `json:"html,omitempty"`
}

func categoryViews() []CategoryView {
	views := make([]CategoryView, len(models.Categories))
	for i, c := range models.Categories {
		views[i] = CategoryView{CategoryInfo: c, Glyph: models.Glyph(c.Icon)}
	}
	return views
}

func (h *APIHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categoryViews()})
}

func (h *APIHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SuggestionsResponse{
		Suggestions: h.suggestions.Match(r.URL.Query().Get("q")),
	})
}

// Validate runs the form validator without touching any session.
func (h *APIHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var in AdviceInput
	if !decodeValidated(w, r, schema.Advice, &in) {
		return
	}

	errs, ok := validateInput(in)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
}

// Advice validates and then generates in one request. Generation problems
// come back as the fixed fallback text with status 200.
func (h *APIHandler) Advice(w http.ResponseWriter, r *http.Request) {
	var in AdviceInput
	if !decodeValidated(w, r, schema.Advice, &in) {
		return
	}

	errs, ok := validateInput(in)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: errs})
		return
	}

	id, _ := GetSessionIDFromContext(r.Context())
	text := h.advice.GenerateAdvice(r.Context(), ai.AdviceRequest{
		SessionID:   id,
		Category:    in.Category,
		Details:     in.Details,
		CustomQuery: in.CustomProblem,
	})

	resp := AdviceResponse{Category: in.Category, Result: text}
	if html, err := render.Markdown(text); err != nil {
		logging.Error("Failed to render advice", map[string]interface{}{"error": err.Error()})
	} else {
		resp.HTML = string(html)
	}
	writeJSON(w, http.StatusOK, resp)
}

func validateInput(in AdviceInput) (models.ValidationErrors, bool) {
	errs, ok := services.ValidateForm(in.Category, in.Details, in.CustomProblem)
	for field := range errs {
		metrics.ValidationFailures.WithLabelValues(field).Inc()
	}
	return errs, ok
}
