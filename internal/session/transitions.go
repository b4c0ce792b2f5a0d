package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNotFound          = errors.New("session not found")
)

// FailureMessage replaces the result when the generator itself fails.
const FailureMessage = "क्षमा करें, तकनीकी खराबी के कारण टिप्स नहीं मिल सके। कृपया दोबारा प्रयास करें।"

// Form carries the editable fields of the category form.
type Form struct {
	Details       models.UserDetails `json:"details"`
	CustomProblem string             `json:"customProblem"`
}

func invalid(action string, st State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, st.Step())
}

// SelectCategory opens the form for a category from the bare grid.
func SelectCategory(st State, raw string) (State, error) {
	sel, ok := st.(Selecting)
	if !ok || sel.HasCategory() {
		return nil, invalid("select", st)
	}
	category, err := models.ParseCategory(raw)
	if err != nil {
		return nil, err
	}
	return Selecting{Category: &category}, nil
}

// Back leaves the form and clears everything typed into it.
func Back(st State) (State, error) {
	sel, ok := st.(Selecting)
	if !ok || !sel.HasCategory() {
		return nil, invalid("back", st)
	}
	return Selecting{}, nil
}

// UpdateForm replaces the form fields. Errors stay until the next submit.
func UpdateForm(st State, form Form) (State, error) {
	sel, ok := st.(Selecting)
	if !ok || !sel.HasCategory() {
		return nil, invalid("update", st)
	}
	sel.Details = form.Details
	sel.CustomProblem = form.CustomProblem
	return sel, nil
}

// BeginSubmit validates the form. An invalid form stays in Selecting with a
// fresh error set; a valid one moves to Loading.
func BeginSubmit(st State, form Form, now time.Time) (State, error) {
	next, err := UpdateForm(st, form)
	if err != nil {
		return nil, invalid("submit", st)
	}
	sel := next.(Selecting)

	errs, ok := services.ValidateForm(*sel.Category, sel.Details, sel.CustomProblem)
	if !ok {
		sel.Errors = errs
		return sel, nil
	}
	return Loading{
		Category:      *sel.Category,
		Details:       sel.Details,
		CustomProblem: sel.CustomProblem,
		StartedAt:     now,
	}, nil
}

// Settle completes a Loading state with the generator outcome.
func Settle(st Loading, result string, genErr error) Done {
	if genErr != nil {
		result = FailureMessage
	}
	return Done{Category: st.Category, Result: result}
}

// Reset returns a finished session to the bare grid.
func Reset(st State) (State, error) {
	if _, ok := st.(Done); !ok {
		return nil, invalid("reset", st)
	}
	return Selecting{}, nil
}
