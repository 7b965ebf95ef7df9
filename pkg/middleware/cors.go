package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists acceptable Origin values. A "*" entry allows any
	// origin; outside development that entry must be explicit.
	AllowedOrigins []string

	// AllowedMethods lists acceptable methods for preflight. Empty means
	// GET, POST, PUT, PATCH, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders lists acceptable request headers for preflight. Empty
	// means Accept, Authorization, Content-Type, X-Correlation-ID, X-User-ID.
	AllowedHeaders []string

	// ExposedHeaders lists response headers readable by browser scripts.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. Zero means 3600.
	MaxAge int

	// AllowCredentials permits cookies and Authorization on cross-origin calls.
	AllowCredentials bool

	// Environment gates wildcard origins: "development" implies wildcard even
	// without a "*" entry.
	Environment string
}

// DefaultCORSConfig returns the development configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID"},
		ExposedHeaders: []string{"X-Correlation-ID", "X-User-ID"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// corsPolicy is the config flattened into precomputed header values.
type corsPolicy struct {
	wildcard bool
	origins  map[string]struct{}
	methods  string
	headers  string
	exposed  string
	maxAge   string
	creds    bool
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID"}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	p := &corsPolicy{
		wildcard: cfg.Environment == "development",
		origins:  make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:  strings.Join(cfg.AllowedMethods, ", "),
		headers:  strings.Join(cfg.AllowedHeaders, ", "),
		exposed:  strings.Join(cfg.ExposedHeaders, ", "),
		maxAge:   strconv.Itoa(cfg.MaxAge),
		creds:    cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			p.wildcard = true
			continue
		}
		p.origins[o] = struct{}{}
	}
	return p
}

func (p *corsPolicy) apply(w http.ResponseWriter, origin string) {
	h := w.Header()

	switch {
	case p.wildcard:
		h.Set("Access-Control-Allow-Origin", "*")
	case origin != "":
		if _, ok := p.origins[origin]; ok {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
		}
	}

	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Allow-Headers", p.headers)
	if p.exposed != "" {
		h.Set("Access-Control-Expose-Headers", p.exposed)
	}
	h.Set("Access-Control-Max-Age", p.maxAge)
	if p.creds {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

// CORS returns middleware that writes CORS headers and short-circuits
// preflight OPTIONS requests with 204.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy.apply(w, r.Header.Get("Origin"))

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
