package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services/ai"
	"github.com/HammerMeetNail/swasthyasaathi/internal/testutil"
)

type mockAdviceService struct {
	calls    []ai.AdviceRequest
	response string
}

func (m *mockAdviceService) GenerateAdvice(ctx context.Context, req ai.AdviceRequest) string {
	m.calls = append(m.calls, req)
	return m.response
}

func newTestAPI(advice *mockAdviceService) *APIHandler {
	return NewAPIHandler(services.NewSuggestionService(), advice)
}

func TestAPIHandler_Categories(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestAPI(&mockAdviceService{}).Categories(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	testutil.AssertStatusCode(t, rr, http.StatusOK)

	var resp CategoriesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Categories) != len(models.Categories) {
		t.Fatalf("expected %d categories, got %d", len(models.Categories), len(resp.Categories))
	}
	first := resp.Categories[0]
	if first.ID != models.CategoryCustom {
		t.Errorf("expected custom category first, got %q", first.ID)
	}
	if first.Glyph != models.Glyph(models.IconMessageCircle) {
		t.Errorf("expected message glyph, got %q", first.Glyph)
	}
}

func TestAPIHandler_Suggestions(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantFirst string
	}{
		{"empty shows defaults", "", models.DefaultSuggestionCount, "पेट दर्द (Stomach Pain)"},
		{"keyword match", "kabz", 1, "कब्ज (Constipation)"},
		{"hindi text match", "बुखार", 1, "बुखार (Fever)"},
		{"no match", "zzzz", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/suggestions?q="+tt.query, nil)
			if tt.query != "" {
				req = httptest.NewRequest(http.MethodGet, "/api/suggestions", nil)
				q := req.URL.Query()
				q.Set("q", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			rr := httptest.NewRecorder()
			newTestAPI(&mockAdviceService{}).Suggestions(rr, req)

			testutil.AssertStatusCode(t, rr, http.StatusOK)
			var resp SuggestionsResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if len(resp.Suggestions) != tt.wantLen {
				t.Fatalf("expected %d suggestions, got %d", tt.wantLen, len(resp.Suggestions))
			}
			if tt.wantLen > 0 && resp.Suggestions[0].Text != tt.wantFirst {
				t.Errorf("expected first %q, got %q", tt.wantFirst, resp.Suggestions[0].Text)
			}
			if tt.wantLen == 0 && !strings.Contains(rr.Body.String(), `"suggestions":[]`) {
				t.Errorf("expected empty array, got %s", rr.Body.String())
			}
		})
	}
}

func TestAPIHandler_Suggestions_HidesKeywords(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestAPI(&mockAdviceService{}).Suggestions(rr, httptest.NewRequest(http.MethodGet, "/api/suggestions", nil))

	if strings.Contains(rr.Body.String(), "keywords") || strings.Contains(rr.Body.String(), "abdomen") {
		t.Errorf("keywords leaked into response: %s", rr.Body.String())
	}
}

func TestAPIHandler_Validate(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantErrors map[string]string
	}{
		{
			name:       "valid",
			body:       map[string]interface{}{"category": "sleep", "details": map[string]string{"age": "28", "gender": "male"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "everything missing",
			body:       map[string]interface{}{"category": "custom"},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{
				models.FieldCustomProblem: services.MsgCustomProblemRequired,
				models.FieldAge:           services.MsgAgeRequired,
				models.FieldGender:        services.MsgGenderRequired,
			},
		},
		{
			name:       "age out of range",
			body:       map[string]interface{}{"category": "fatigue", "details": map[string]string{"age": "116", "gender": "female"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{models.FieldAge: services.MsgAgeInvalid},
		},
		{
			name:       "whitespace problem",
			body:       map[string]interface{}{"category": "custom", "customProblem": "   ", "details": map[string]string{"age": "30", "gender": "other"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string]string{models.FieldCustomProblem: services.MsgCustomProblemRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newTestAPI(&mockAdviceService{}).Validate(rr, testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/validate", tt.body))

			testutil.AssertStatusCode(t, rr, tt.wantStatus)
			var resp ValidateResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Valid != (tt.wantStatus == http.StatusOK) {
				t.Errorf("unexpected valid flag %v", resp.Valid)
			}
			if len(resp.Errors) != len(tt.wantErrors) {
				t.Fatalf("expected errors %v, got %v", tt.wantErrors, resp.Errors)
			}
			for field, msg := range tt.wantErrors {
				if resp.Errors[field] != msg {
					t.Errorf("expected %s error %q, got %q", field, msg, resp.Errors[field])
				}
			}
		})
	}
}

func TestAPIHandler_Validate_SchemaViolations(t *testing.T) {
	bodies := map[string]string{
		"not json":         `{not json`,
		"unknown category": `{"category":"astrology"}`,
		"missing category": `{"details":{"age":"20","gender":"male"}}`,
		"numeric age":      `{"category":"sleep","details":{"age":20,"gender":"male"}}`,
		"extra field":      `{"category":"sleep","admin":true}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newTestAPI(&mockAdviceService{}).Validate(rr, testutil.NewTestRequest(http.MethodPost, "/api/validate", strings.NewReader(body)))
			assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid request body")
		})
	}
}

func TestAPIHandler_Validate_BodyTooLarge(t *testing.T) {
	body := `{"category":"custom","customProblem":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := httptest.NewRecorder()
	newTestAPI(&mockAdviceService{}).Validate(rr, testutil.NewTestRequest(http.MethodPost, "/api/validate", strings.NewReader(body)))
	assertErrorResponse(t, rr, http.StatusRequestEntityTooLarge, "Request body too large")
}

func TestAPIHandler_Advice(t *testing.T) {
	advice := &mockAdviceService{response: "## परिचय\n\n**पानी** खूब पिएं"}
	rr := httptest.NewRecorder()
	req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/advice", map[string]interface{}{
		"category":      "custom",
		"customProblem": "सिरदर्द",
		"details":       map[string]string{"age": "28", "gender": "male"},
	})

	newTestAPI(advice).Advice(rr, req)

	testutil.AssertStatusCode(t, rr, http.StatusOK)
	var resp AdviceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Result != advice.response {
		t.Errorf("expected raw result, got %q", resp.Result)
	}
	testutil.AssertContains(t, resp.HTML, "<strong>पानी</strong>", "rendered html")
	testutil.AssertContains(t, resp.HTML, "<h2>परिचय</h2>", "rendered html")

	if len(advice.calls) != 1 {
		t.Fatalf("expected one generation, got %d", len(advice.calls))
	}
	call := advice.calls[0]
	if call.Category != models.CategoryCustom || call.CustomQuery != "सिरदर्द" || call.Details.Age != "28" {
		t.Errorf("unexpected request %+v", call)
	}
}

func TestAPIHandler_Advice_InvalidNeverGenerates(t *testing.T) {
	advice := &mockAdviceService{response: "unused"}
	rr := httptest.NewRecorder()
	req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/advice", map[string]interface{}{
		"category": "sleep",
		"details":  map[string]string{"age": "abc", "gender": "male"},
	})

	newTestAPI(advice).Advice(rr, req)

	testutil.AssertStatusCode(t, rr, http.StatusUnprocessableEntity)
	if len(advice.calls) != 0 {
		t.Fatalf("generator must not run for invalid input, ran %d times", len(advice.calls))
	}
}

func TestAPIHandler_Advice_FallbackTextIsOK(t *testing.T) {
	advice := &mockAdviceService{response: ai.TechnicalFailureMessage}
	rr := httptest.NewRecorder()
	req := testutil.NewTestRequestWithJSON(t, http.MethodPost, "/api/advice", map[string]interface{}{
		"category": "immunity",
		"details":  map[string]string{"age": "60", "gender": "female"},
	})

	newTestAPI(advice).Advice(rr, req)

	testutil.AssertStatusCode(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr.Body.Bytes(), "result", ai.TechnicalFailureMessage)
}
