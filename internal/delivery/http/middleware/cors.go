package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PATCH, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept, " + RequestIDHeader
	corsMaxAge       = "86400"
)

// corsPolicy is the parsed CORS_ALLOWED_ORIGINS list. "*" admits any origin.
type corsPolicy struct {
	origins  map[string]struct{}
	anyOrigin bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	return p
}

func (p corsPolicy) empty() bool {
	return !p.anyOrigin && len(p.origins) == 0
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS echoes allowed origins back with credentials enabled and answers preflight
// requests with 204 without calling next. An empty list disables CORS.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)
	if policy.empty() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		allowed := policy.allows(origin)
		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
