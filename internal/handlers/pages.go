package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/assets"
	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
	"github.com/HammerMeetNail/swasthyasaathi/internal/render"
	"github.com/HammerMeetNail/swasthyasaathi/internal/session"
)

const (
	csrfFormField  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	siteTitle      = "स्वास्थ्य साथी"
)

// PageHandler renders the three-step flow as server-side HTML. Every POST
// redirects back to / so a reload never repeats an action.
type PageHandler struct {
	templates   *template.Template
	manifest    *assets.Manifest
	sessions    SessionController
	suggestions SuggestionMatcher
	now         func() time.Time
}

func NewPageHandler(templates fs.FS, manifest *assets.Manifest, sessions SessionController, suggestions SuggestionMatcher) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templates, "*.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates:   tmpl,
		manifest:    manifest,
		sessions:    sessions,
		suggestions: suggestions,
		now:         time.Now,
	}, nil
}

type PageData struct {
	Title      string
	CSRFField  string
	CSRFToken  string
	CSS        string
	AppJS      string
	Step       session.Step
	Categories []CategoryView
	Form       *FormView
	Loading    *CategoryView
	Result     *ResultView
	Year       int
}

type FormView struct {
	Category      CategoryView
	IsCustom      bool
	Age           string
	CustomProblem string
	Genders       []GenderOption
	Errors        models.ValidationErrors
	Suggestions   []models.SuggestionItem
}

type GenderOption struct {
	Value    models.Gender
	Label    string
	Selected bool
}

type ResultView struct {
	Category CategoryView
	HTML     template.HTML
}

type ErrorPageData struct {
	PageData
	Status  int
	Message string
}

var genderLabels = []struct {
	value models.Gender
	label string
}{
	{models.GenderMale, "पुरुष (Male)"},
	{models.GenderFemale, "महिला (Female)"},
	{models.GenderOther, "अन्य (Other)"},
}

func categoryView(id models.HealthCategory) CategoryView {
	info, _ := models.LookupCategory(id)
	return CategoryView{CategoryInfo: info, Glyph: models.Glyph(info.Icon)}
}

func (h *PageHandler) basePage(w http.ResponseWriter) PageData {
	return PageData{
		Title:     siteTitle,
		CSRFField: csrfFormField,
		CSRFToken: w.Header().Get(csrfHeaderName),
		CSS:       h.manifest.GetCSS(),
		AppJS:     h.manifest.GetAppJS(),
		Year:      h.now().Year(),
	}
}

func (h *PageHandler) pageData(w http.ResponseWriter, st session.State) (PageData, error) {
	data := h.basePage(w)
	data.Step = st.Step()

	switch s := st.(type) {
	case session.Selecting:
		if !s.HasCategory() {
			data.Categories = categoryViews()
			break
		}
		form := &FormView{
			Category:      categoryView(*s.Category),
			IsCustom:      s.Category.IsCustom(),
			Age:           s.Details.Age,
			CustomProblem: s.CustomProblem,
			Errors:        s.Errors,
		}
		for _, g := range genderLabels {
			form.Genders = append(form.Genders, GenderOption{
				Value:    g.value,
				Label:    g.label,
				Selected: s.Details.Gender == g.value,
			})
		}
		if form.IsCustom {
			form.Suggestions = h.suggestions.Match(s.CustomProblem)
		}
		data.Form = form
	case session.Loading:
		view := categoryView(s.Category)
		data.Loading = &view
	case session.Done:
		html, err := render.Markdown(s.Result)
		if err != nil {
			return data, err
		}
		data.Result = &ResultView{Category: categoryView(s.Category), HTML: html}
	}
	return data, nil
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	id, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		h.InternalError(w, r)
		return
	}

	st, err := h.sessions.Current(r.Context(), id)
	if err != nil {
		h.sessionFailure(w, r, id, "current", err)
		return
	}

	data, err := h.pageData(w, st)
	if err != nil {
		h.sessionFailure(w, r, id, "render", err)
		return
	}
	if st.Step() == session.StepLoading {
		w.Header().Set("Refresh", "3")
	}
	h.execute(w, http.StatusOK, "index.html", data)
}

func (h *PageHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "select", func(id uuid.UUID) (session.State, error) {
		return h.sessions.SelectCategory(r.Context(), id, r.PostFormValue("category"))
	})
}

func (h *PageHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "back", func(id uuid.UUID) (session.State, error) {
		return h.sessions.Back(r.Context(), id)
	})
}

func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form := session.Form{
		Details: models.UserDetails{
			Age:    r.PostFormValue("age"),
			Gender: models.Gender(r.PostFormValue("gender")),
		},
		CustomProblem: r.PostFormValue("customProblem"),
	}
	h.act(w, r, "submit", func(id uuid.UUID) (session.State, error) {
		return h.sessions.Submit(r.Context(), id, form)
	})
}

func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "reset", func(id uuid.UUID) (session.State, error) {
		return h.sessions.Reset(r.Context(), id)
	})
}

func (h *PageHandler) act(w http.ResponseWriter, r *http.Request, action string, fn func(uuid.UUID) (session.State, error)) {
	id, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		h.InternalError(w, r)
		return
	}
	if _, err := fn(id); err != nil {
		h.sessionFailure(w, r, id, action, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) sessionFailure(w http.ResponseWriter, r *http.Request, id uuid.UUID, action string, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		// A stale tab posted an action for a step that already moved on.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, models.ErrUnknownCategory):
		h.renderError(w, http.StatusBadRequest, "यह विकल्प उपलब्ध नहीं है।")
	default:
		logging.Error("Page action failed", map[string]interface{}{
			"session_id": id.String(),
			"action":     action,
			"error":      err.Error(),
		})
		h.InternalError(w, r)
	}
}

func (h *PageHandler) execute(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error("Template error", map[string]interface{}{
			"template": name,
			"error":    err.Error(),
		})
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) renderError(w http.ResponseWriter, status int, message string) {
	h.execute(w, status, "error.html", ErrorPageData{
		PageData: h.basePage(w),
		Status:   status,
		Message:  message,
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound, "यह पेज नहीं मिला।")
}

func (h *PageHandler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusInternalServerError, "कुछ गलत हो गया। कृपया दोबारा प्रयास करें।")
}

// RateLimited is shown when a visitor submits too many forms in a window.
func (h *PageHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusTooManyRequests, "बहुत अधिक अनुरोध। कृपया कुछ देर बाद प्रयास करें।")
}
