package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/swasthyasaathi/internal/handlers"
)

const SessionCookieName = "ss_session"

// Sessions attaches an anonymous session id to every page and API request,
// issuing a cookie on first visit.
type Sessions struct {
	secure bool
	ttl    time.Duration
}

func NewSessions(secure bool, ttl time.Duration) *Sessions {
	return &Sessions{secure: secure, ttl: ttl}
}

func (s *Sessions) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipSession(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		id, ok := sessionFromCookie(r)
		if !ok {
			id = uuid.New()
			ctx = handlers.MarkNewSessionInContext(ctx)
		}
		// Refresh the cookie so it tracks the sliding server-side TTL.
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    id.String(),
			Path:     "/",
			MaxAge:   int(s.ttl.Seconds()),
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})

		ctx = handlers.SetSessionIDInContext(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromCookie(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func skipSession(path string) bool {
	if strings.HasPrefix(path, "/static/") {
		return true
	}
	switch path {
	case "/health", "/ready", "/live", "/metrics":
		return true
	}
	return false
}
