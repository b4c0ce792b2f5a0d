package services

import (
	"strings"
	"unicode"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

const (
	MinAge = 1
	MaxAge = 115
)

// User-facing validation messages.
const (
	MsgCustomProblemRequired = "कृपया अपनी समस्या यहाँ लिखें!"
	MsgAgeRequired           = "अपनी उम्र दर्ज करें!"
	MsgAgeInvalid            = "कृपया सही उम्र लिखें!"
	MsgGenderRequired        = "लिंग का चयन करें!"
)

// ValidateForm checks the submission and returns every field error found.
// The returned map is always fresh; callers replace prior errors with it.
func ValidateForm(category models.HealthCategory, details models.UserDetails, customProblem string) (models.ValidationErrors, bool) {
	errs := models.ValidationErrors{}

	if category.IsCustom() && strings.TrimSpace(customProblem) == "" {
		errs[models.FieldCustomProblem] = MsgCustomProblemRequired
	}

	if details.Age == "" {
		errs[models.FieldAge] = MsgAgeRequired
	} else if age, ok := ParseLeadingInt(details.Age); !ok || age < MinAge || age > MaxAge {
		errs[models.FieldAge] = MsgAgeInvalid
	}

	if !details.Gender.Valid() {
		errs[models.FieldGender] = MsgGenderRequired
	}

	return errs, len(errs) == 0
}

// ParseLeadingInt reads an optionally signed base-10 integer from the start of
// s after leading whitespace, ignoring anything that follows ("28abc" is 28).
// Values beyond the int range saturate.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	const limit = 1 << 30
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n < limit {
			n = n*10 + int(r-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
