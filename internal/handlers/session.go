package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/render"
	"github.com/HammerMeetNail/swasthyasaathi/internal/schema"
	"github.com/HammerMeetNail/swasthyasaathi/internal/session"
)

// SessionController is the view controller as seen by the HTTP layer.
type SessionController interface {
	Current(ctx context.Context, id uuid.UUID) (session.State, error)
	SelectCategory(ctx context.Context, id uuid.UUID, category string) (session.State, error)
	Back(ctx context.Context, id uuid.UUID) (session.State, error)
	UpdateForm(ctx context.Context, id uuid.UUID, form session.Form) (session.State, error)
	Submit(ctx context.Context, id uuid.UUID, form session.Form) (session.State, error)
	Reset(ctx context.Context, id uuid.UUID) (session.State, error)
}

// SessionHandler exposes the view controller as JSON for script clients.
type SessionHandler struct {
	sessions SessionController
}

func NewSessionHandler(sessions SessionController) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type SessionResponse struct {
	session.Snapshot
	ResultHTML string `json:"resultHtml,omitempty"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	st, err := h.sessions.Current(r.Context(), id)
	h.respond(w, id, "current", st, err)
}

func (h *SessionHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeValidated(w, r, schema.Category, &req) {
		return
	}
	st, err := h.sessions.SelectCategory(r.Context(), id, req.Category)
	h.respond(w, id, "select", st, err)
}

func (h *SessionHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	var form session.Form
	if !decodeValidated(w, r, schema.Form, &form) {
		return
	}
	st, err := h.sessions.UpdateForm(r.Context(), id, form)
	h.respond(w, id, "update", st, err)
}

func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	st, err := h.sessions.Back(r.Context(), id)
	h.respond(w, id, "back", st, err)
}

// Submit answers 200 with the Done state, or 422 with the Selecting state
// and its field errors when the form is invalid.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	var form session.Form
	if !decodeValidated(w, r, schema.Form, &form) {
		return
	}
	st, err := h.sessions.Submit(r.Context(), id, form)
	h.respond(w, id, "submit", st, err)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	st, err := h.sessions.Reset(r.Context(), id)
	h.respond(w, id, "reset", st, err)
}

func (h *SessionHandler) respond(w http.ResponseWriter, id uuid.UUID, action string, st session.State, err error) {
	if err != nil {
		writeSessionError(w, id, action, err)
		return
	}

	resp := SessionResponse{Snapshot: session.SnapshotOf(st)}
	if done, ok := st.(session.Done); ok {
		html, err := render.Markdown(done.Result)
		if err != nil {
			logging.Error("Failed to render result", map[string]interface{}{
				"session_id": id.String(),
				"error":      err.Error(),
			})
		} else {
			resp.ResultHTML = string(html)
		}
	}

	status := http.StatusOK
	if sel, ok := st.(session.Selecting); ok && len(sel.Errors) > 0 && action == "submit" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func writeSessionError(w http.ResponseWriter, id uuid.UUID, action string, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Action not allowed in the current step")
	case errors.Is(err, models.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "Unknown category")
	default:
		logging.Error("Session action failed", map[string]interface{}{
			"session_id": id.String(),
			"action":     action,
			"error":      err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func requireSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Session required")
		return uuid.Nil, false
	}
	return id, true
}

// decodeValidated checks the body against s before decoding it into dst.
func decodeValidated(w http.ResponseWriter, r *http.Request, s *schema.Schema, dst interface{}) bool {
	body, err := readBody(w, r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.Validate(body); err != nil {
		logging.Debug("Request failed schema validation", map[string]interface{}{
			"schema": s.Name(),
			"error":  err.Error(),
		})
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
