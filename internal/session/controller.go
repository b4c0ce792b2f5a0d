package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/metrics"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services/ai"
)

var errStaleLoading = errors.New("generation did not settle")

// Generator produces the advice text for a validated submission.
type Generator interface {
	Generate(ctx context.Context, req ai.AdviceRequest) (string, error)
}

type GeneratorFunc func(ctx context.Context, req ai.AdviceRequest) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req ai.AdviceRequest) (string, error) {
	return f(ctx, req)
}

type adviceService interface {
	GenerateAdvice(ctx context.Context, req ai.AdviceRequest) string
}

// AdviceGenerator wraps the advice service. Provider errors are already
// folded into fallback text there, so this generator only fails on panics.
func AdviceGenerator(svc adviceService) Generator {
	return GeneratorFunc(func(ctx context.Context, req ai.AdviceRequest) (string, error) {
		return svc.GenerateAdvice(ctx, req), nil
	})
}

const lockStripes = 64

// Controller runs the per-session state machine on top of a Store.
type Controller struct {
	store      Store
	generator  Generator
	staleAfter time.Duration
	now        func() time.Time
	locks      [lockStripes]sync.Mutex
}

// NewController creates a controller. A Loading session older than
// staleAfter is settled with the failure text on next read; zero disables this.
func NewController(store Store, generator Generator, staleAfter time.Duration) *Controller {
	return &Controller{
		store:      store,
		generator:  generator,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (c *Controller) lock(id uuid.UUID) func() {
	m := &c.locks[int(id[0])%lockStripes]
	m.Lock()
	return m.Unlock
}

// Current returns the session state, starting a new session when none exists.
func (c *Controller) Current(ctx context.Context, id uuid.UUID) (State, error) {
	unlock := c.lock(id)
	defer unlock()
	return c.load(ctx, id)
}

func (c *Controller) load(ctx context.Context, id uuid.UUID) (State, error) {
	st, err := c.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Initial(), nil
	}
	if err != nil {
		return nil, err
	}

	if loading, ok := st.(Loading); ok && c.staleAfter > 0 && c.now().Sub(loading.StartedAt) > c.staleAfter {
		logging.Warn("Settling stale loading session", map[string]interface{}{
			"session_id": id.String(),
			"started_at": loading.StartedAt,
		})
		done := Settle(loading, "", errStaleLoading)
		if err := c.store.Save(ctx, id, done); err != nil {
			return nil, err
		}
		return done, nil
	}
	return st, nil
}

func (c *Controller) apply(ctx context.Context, id uuid.UUID, action string, fn func(State) (State, error)) (State, error) {
	unlock := c.lock(id)
	defer unlock()

	st, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(st)
	if err != nil {
		return nil, err
	}
	if err := c.persist(ctx, id, next); err != nil {
		return nil, err
	}
	metrics.SessionTransitions.WithLabelValues(action, string(next.Step())).Inc()
	return next, nil
}

// persist drops sessions that are back at the initial state; a missing
// session loads as Initial anyway.
func (c *Controller) persist(ctx context.Context, id uuid.UUID, st State) error {
	if isInitial(st) {
		return c.store.Delete(ctx, id)
	}
	return c.store.Save(ctx, id, st)
}

func isInitial(st State) bool {
	sel, ok := st.(Selecting)
	return ok && !sel.HasCategory() && sel.CustomProblem == "" &&
		sel.Details == (models.UserDetails{}) && len(sel.Errors) == 0
}

func (c *Controller) SelectCategory(ctx context.Context, id uuid.UUID, category string) (State, error) {
	return c.apply(ctx, id, "select", func(st State) (State, error) {
		return SelectCategory(st, category)
	})
}

func (c *Controller) Back(ctx context.Context, id uuid.UUID) (State, error) {
	return c.apply(ctx, id, "back", Back)
}

func (c *Controller) UpdateForm(ctx context.Context, id uuid.UUID, form Form) (State, error) {
	return c.apply(ctx, id, "update", func(st State) (State, error) {
		return UpdateForm(st, form)
	})
}

func (c *Controller) Reset(ctx context.Context, id uuid.UUID) (State, error) {
	return c.apply(ctx, id, "reset", Reset)
}

// Submit validates the form and, when valid, runs the generator and stores
// the Done state. The Loading state is saved before the call so a second
// submit for the same session is rejected while the first is outstanding.
func (c *Controller) Submit(ctx context.Context, id uuid.UUID, form Form) (State, error) {
	next, err := c.apply(ctx, id, "submit", func(st State) (State, error) {
		return BeginSubmit(st, form, c.now())
	})
	if err != nil {
		return nil, err
	}

	loading, ok := next.(Loading)
	if !ok {
		if sel, ok := next.(Selecting); ok {
			for field := range sel.Errors {
				metrics.ValidationFailures.WithLabelValues(field).Inc()
			}
		}
		return next, nil
	}

	result, genErr := c.generate(ctx, ai.AdviceRequest{
		SessionID:   id,
		Category:    loading.Category,
		Details:     loading.Details,
		CustomQuery: loading.CustomProblem,
	})
	if genErr != nil {
		logging.Error("Generator failed", map[string]interface{}{
			"session_id": id.String(),
			"error":      genErr.Error(),
		})
	}
	done := Settle(loading, result, genErr)

	// The request may already be cancelled; the settled state must still land.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	unlock := c.lock(id)
	defer unlock()

	// Only the Loading this call started may settle. The session can move on
	// meanwhile (stale settle, reset, eviction) and must not jump to Done.
	current, err := c.store.Get(saveCtx, id)
	if errors.Is(err, ErrNotFound) {
		logging.Warn("Dropping advice for vanished session", map[string]interface{}{
			"session_id": id.String(),
		})
		return Initial(), nil
	}
	if err != nil {
		return nil, err
	}
	if cur, ok := current.(Loading); !ok || !cur.StartedAt.Equal(loading.StartedAt) {
		logging.Warn("Dropping late advice; session moved on", map[string]interface{}{
			"session_id": id.String(),
			"step":       string(current.Step()),
		})
		return current, nil
	}

	if err := c.store.Save(saveCtx, id, done); err != nil {
		return nil, err
	}
	metrics.SessionTransitions.WithLabelValues("settle", string(StepDone)).Inc()
	return done, nil
}

func (c *Controller) generate(ctx context.Context, req ai.AdviceRequest) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return c.generator.Generate(ctx, req)
}
