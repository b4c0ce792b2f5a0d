package middleware

import (
	"net/http"
	"path"
	"strings"
)

// CacheControl sets cache headers by path. Pages carry per-session state and
// are never cached.
type CacheControl struct{}

func NewCacheControl() *CacheControl {
	return &CacheControl{}
}

func (c *CacheControl) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path

		switch {
		case strings.HasPrefix(p, "/static/"):
			w.Header().Set("Cache-Control", staticCacheControl(p))
		case p == "/api/categories":
			// Static catalog.
			w.Header().Set("Cache-Control", "public, max-age=3600")
		case strings.HasPrefix(p, "/api/"):
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
		default:
			w.Header().Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

func staticCacheControl(p string) string {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".woff", ".woff2", ".ttf", ".otf", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".svg":
		return "public, max-age=31536000, immutable"
	case ".css", ".js":
		// Fingerprinted names get the long lifetime.
		if isFingerprinted(p) {
			return "public, max-age=31536000, immutable"
		}
		return "public, max-age=86400, must-revalidate"
	default:
		return "public, max-age=3600"
	}
}

// isFingerprinted matches names like app.3f2a9c1d.js.
func isFingerprinted(p string) bool {
	base := path.Base(p)
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, r := range hash {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
