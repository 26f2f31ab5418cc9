// Package middleware holds the chi middleware of the FRA monitor API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API.  "*" allows any
	// origin and "*.example.org" any subdomain when AllowWildcard is set.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// ExposedHeaders are readable by the dashboard, e.g. report file names.
	ExposedHeaders []string

	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	MaxAge int

	AllowWildcard bool
}

// DefaultCORSConfig returns the configuration the dashboard needs: reads,
// uploads and holder registration, with no origin allowed until configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Request-ID",
			"X-Report-Records",
			"X-Report-Warnings",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		MaxAge: 86400,
	}
}

// CORSForOrigins is DefaultCORSConfig with origins from server configuration.
// Entries starting with "*." turn on subdomain matching.
func CORSForOrigins(origins []string) CORSConfig {
	cfg := DefaultCORSConfig()
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if strings.HasPrefix(o, "*.") {
			cfg.AllowWildcard = true
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
	}
	return cfg
}

// originPolicy decides whether an Origin header is acceptable.
type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginPolicy(cfg CORSConfig) originPolicy {
	p := originPolicy{exact: make(map[string]struct{}, len(cfg.AllowedOrigins))}
	for _, o := range cfg.AllowedOrigins {
		switch {
		case o == "*":
			p.any = true
		case cfg.AllowWildcard && strings.HasPrefix(o, "*."):
			p.suffixes = append(p.suffixes, strings.ToLower(o[1:]))
		default:
			p.exact[strings.ToLower(o)] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if p.any {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := p.exact[origin]; ok {
		return true
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, s := range p.suffixes {
		if strings.HasSuffix(host, s) && len(host) > len(s) {
			return true
		}
	}
	return false
}

// CORS returns middleware that handles Cross-Origin Resource Sharing.
// Requests from disallowed origins are served without CORS headers and the
// browser blocks the response.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	policy := newOriginPolicy(config)
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !policy.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			// A wildcard cannot be combined with credentials.
			if policy.any && !config.AllowCredentials {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if config.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
