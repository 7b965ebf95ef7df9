package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/ordercloud-api/searchproxy/pkg/config"
)

// Config holds all configuration for the search proxy.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	// JWT authentication
	JWTSecret string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`

	// RequiredRoles, when set, rejects tokens lacking any listed role.
	RequiredRoles []string `env:"REQUIRED_ROLES" envSeparator:","`

	// EchoRequiredRoles includes the required role list in 401 messages.
	EchoRequiredRoles bool `env:"ECHO_REQUIRED_ROLES" envDefault:"false"`

	// MarketplaceID, when set, restricts the proxy to callers from this
	// marketplace.
	MarketplaceID string `env:"MARKETPLACE_ID"`

	// Upstream search service
	SearchBaseURL    string        `env:"SEARCH_BASE_URL" envDefault:"https://discover.sitecorecloud.io"`
	SearchDomainID   string        `env:"SEARCH_DOMAIN_ID,notEmpty"`
	SearchAPIKey     string        `env:"SEARCH_API_KEY,notEmpty"`
	SearchTimeout    time.Duration `env:"SEARCH_TIMEOUT" envDefault:"30s"`
	SearchRetryCount int           `env:"SEARCH_RETRY_COUNT" envDefault:"2"`
	SearchRetryDelay time.Duration `env:"SEARCH_RETRY_DELAY" envDefault:"350ms"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSMaxAge         int      `env:"CORS_MAX_AGE" envDefault:"300"`

	// Pprof debug endpoints
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:"," envDefault:"127.0.0.1/32"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load searchproxy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Environment != "development" && c.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be changed from default value in %s environment", c.Environment)
	}
	if c.SearchRetryCount < 0 {
		return fmt.Errorf("SEARCH_RETRY_COUNT must not be negative")
	}
	return nil
}
