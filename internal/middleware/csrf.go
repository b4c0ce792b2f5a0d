package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	// CSRFFormField carries the token in server-rendered forms.
	CSRFFormField = "csrf_token"
	csrfTokenLen  = 32
	csrfMaxAge    = 12 * 60 * 60
)

// CSRFMiddleware implements double-submit cookies. Scripts echo the cookie in
// a header; plain HTML forms post it as a hidden field.
type CSRFMiddleware struct {
	secure bool
}

func NewCSRFMiddleware(secure bool) *CSRFMiddleware {
	return &CSRFMiddleware{secure: secure}
}

func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			m.ensureToken(w, r)
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusForbidden, "CSRF token missing")
			return
		}

		token := r.Header.Get(csrfHeaderName)
		if token == "" && isFormPost(r) {
			token = r.PostFormValue(CSRFFormField)
		}
		if token == "" {
			writeError(w, http.StatusForbidden, "CSRF token header missing")
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(token)) != 1 {
			writeError(w, http.StatusForbidden, "CSRF token mismatch")
			return
		}

		// Keep the token visible to handlers that re-render a form.
		w.Header().Set(csrfHeaderName, cookie.Value)
		next.ServeHTTP(w, r)
	})
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

// ensureToken issues a cookie when missing and exposes the token in the
// response header, where page handlers read it for hidden form fields.
func (m *CSRFMiddleware) ensureToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		w.Header().Set(csrfHeaderName, cookie.Value)
		return cookie.Value
	}

	token, err := generateCSRFToken()
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		HttpOnly: false, // read by the page script
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set(csrfHeaderName, token)
	return token
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GetToken serves the current token to script clients.
func (m *CSRFMiddleware) GetToken(w http.ResponseWriter, r *http.Request) {
	token := m.ensureToken(w, r)
	if token == "" {
		writeError(w, http.StatusInternalServerError, "Failed to generate CSRF token")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}
