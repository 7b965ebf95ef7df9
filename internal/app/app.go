// Package app wires together all dependencies and runs the search proxy.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ordercloud-api/searchproxy/internal/config"
	handler "github.com/ordercloud-api/searchproxy/internal/handler/http"
	"github.com/ordercloud-api/searchproxy/internal/identity"
	"github.com/ordercloud-api/searchproxy/internal/searchclient"
	"github.com/ordercloud-api/searchproxy/internal/service"
	"github.com/ordercloud-api/searchproxy/pkg/health"
	"github.com/ordercloud-api/searchproxy/pkg/tracing"
)

// App wires together all dependencies and runs the HTTP server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance. The proxy has no database or
// messaging dependencies; its only collaborator is the upstream search
// service.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "searchproxy",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	client := searchclient.New(searchclient.Config{
		BaseURL:    cfg.SearchBaseURL,
		DomainID:   cfg.SearchDomainID,
		APIKey:     cfg.SearchAPIKey,
		Timeout:    cfg.SearchTimeout,
		RetryCount: cfg.SearchRetryCount,
		RetryDelay: cfg.SearchRetryDelay,
	}, logger)

	searchService := service.NewSearchService(client, cfg.MarketplaceID, logger)

	var providerOpts []identity.Option
	if len(cfg.RequiredRoles) > 0 {
		providerOpts = append(providerOpts, identity.WithRequiredRoles(cfg.RequiredRoles...))
		providerOpts = append(providerOpts, identity.WithRoleEcho(cfg.EchoRequiredRoles))
	}
	provider := identity.NewJWTProvider(cfg.JWTSecret, providerOpts...)

	// Health checks with upstream reachability.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("search-upstream", func(ctx context.Context) error {
		u, err := url.Parse(cfg.SearchBaseURL)
		if err != nil {
			return fmt.Errorf("parse search base URL: %w", err)
		}
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "443")
		}
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", host)
		if err != nil {
			return fmt.Errorf("search upstream unreachable: %w", err)
		}
		_ = conn.Close()
		return nil
	})
	if cfg.OTELEnabled {
		healthHandler.RegisterNonCritical("trace-exporter", func(ctx context.Context) error {
			d := net.Dialer{Timeout: 2 * time.Second}
			conn, err := d.DialContext(ctx, "tcp", cfg.OTELEndpoint)
			if err != nil {
				return fmt.Errorf("trace exporter unreachable: %w", err)
			}
			_ = conn.Close()
			return nil
		})
	}

	router := handler.NewRouter(cfg, searchService, provider, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the server: drain in-flight requests first,
// then flush pending spans.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
