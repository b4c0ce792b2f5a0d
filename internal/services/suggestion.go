package services

import (
	"strings"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

// SuggestionService matches free-text input against a static issue catalog.
type SuggestionService struct {
	catalog []models.SuggestionItem
}

func NewSuggestionService() *SuggestionService {
	return &SuggestionService{catalog: models.HealthSuggestions}
}

// NewSuggestionServiceWithCatalog is used by tests to match against a fixed catalog.
func NewSuggestionServiceWithCatalog(catalog []models.SuggestionItem) *SuggestionService {
	return &SuggestionService{catalog: catalog}
}

// Match filters the catalog for input, preserving catalog order.
//
// Empty input yields the first DefaultSuggestionCount entries. Otherwise an
// entry matches when its lower-cased text contains the input or any keyword
// contains it. There is no ranking and no cap, so short fragments such as
// "a" can return most of the catalog.
func (s *SuggestionService) Match(input string) []models.SuggestionItem {
	return MatchSuggestions(s.catalog, input)
}

func MatchSuggestions(catalog []models.SuggestionItem, input string) []models.SuggestionItem {
	needle := strings.ToLower(strings.TrimSpace(input))

	if needle == "" {
		n := models.DefaultSuggestionCount
		if len(catalog) < n {
			n = len(catalog)
		}
		out := make([]models.SuggestionItem, n)
		copy(out, catalog[:n])
		return out
	}

	out := make([]models.SuggestionItem, 0)
	for _, item := range catalog {
		if suggestionMatches(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

func suggestionMatches(item models.SuggestionItem, needle string) bool {
	if strings.Contains(strings.ToLower(item.Text), needle) {
		return true
	}
	for _, k := range item.Keywords {
		if strings.Contains(k, needle) {
			return true
		}
	}
	return false
}
