package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

type Step string

const (
	StepSelecting Step = "selecting"
	StepLoading   Step = "loading"
	StepDone      Step = "done"
)

// State is one of Selecting, Loading or Done.
type State interface {
	Step() Step
	sealed()
}

// Selecting covers both the category grid (Category == nil) and the form for
// a chosen category.
type Selecting struct {
	Category      *models.HealthCategory
	Details       models.UserDetails
	CustomProblem string
	Errors        models.ValidationErrors
}

// Loading is entered once a valid form is submitted and lasts until the
// generator settles.
type Loading struct {
	Category      models.HealthCategory
	Details       models.UserDetails
	CustomProblem string
	StartedAt     time.Time
}

type Done struct {
	Category models.HealthCategory
	Result   string
}

func (Selecting) Step() Step { return StepSelecting }
func (Loading) Step() Step   { return StepLoading }
func (Done) Step() Step      { return StepDone }

func (Selecting) sealed() {}
func (Loading) sealed()   {}
func (Done) sealed()      {}

// Initial returns the bare category grid.
func Initial() State {
	return Selecting{}
}

// HasCategory reports whether the form for a category is showing.
func (s Selecting) HasCategory() bool {
	return s.Category != nil
}

// Snapshot is the flat wire form of a State, used both for persistence and
// for the JSON API.
type Snapshot struct {
	Step          Step                    `json:"step"`
	Category      *models.HealthCategory  `json:"category,omitempty"`
	Details       models.UserDetails      `json:"details"`
	CustomProblem string                  `json:"customProblem,omitempty"`
	Errors        models.ValidationErrors `json:"errors,omitempty"`
	Result        string                  `json:"result,omitempty"`
	StartedAt     *time.Time              `json:"startedAt,omitempty"`
}

func SnapshotOf(st State) Snapshot {
	switch s := st.(type) {
	case Selecting:
		return Snapshot{
			Step:          StepSelecting,
			Category:      s.Category,
			Details:       s.Details,
			CustomProblem: s.CustomProblem,
			Errors:        s.Errors,
		}
	case Loading:
		category := s.Category
		started := s.StartedAt
		return Snapshot{
			Step:          StepLoading,
			Category:      &category,
			Details:       s.Details,
			CustomProblem: s.CustomProblem,
			StartedAt:     &started,
		}
	case Done:
		category := s.Category
		return Snapshot{
			Step:     StepDone,
			Category: &category,
			Result:   s.Result,
		}
	default:
		return SnapshotOf(Initial())
	}
}

// State converts the snapshot back into its variant.
func (s Snapshot) State() (State, error) {
	switch s.Step {
	case StepSelecting:
		return Selecting{
			Category:      s.Category,
			Details:       s.Details,
			CustomProblem: s.CustomProblem,
			Errors:        s.Errors,
		}, nil
	case StepLoading:
		if s.Category == nil {
			return nil, fmt.Errorf("loading state without category")
		}
		st := Loading{Category: *s.Category, Details: s.Details, CustomProblem: s.CustomProblem}
		if s.StartedAt != nil {
			st.StartedAt = *s.StartedAt
		}
		return st, nil
	case StepDone:
		if s.Category == nil {
			return nil, fmt.Errorf("done state without category")
		}
		return Done{Category: *s.Category, Result: s.Result}, nil
	default:
		return nil, fmt.Errorf("unknown step %q", s.Step)
	}
}

func Encode(st State) ([]byte, error) {
	return json.Marshal(SnapshotOf(st))
}

func Decode(data []byte) (State, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding session state: %w", err)
	}
	return snap.State()
}
