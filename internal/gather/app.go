// Package gather wires application dependencies.
package gather

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"gather/internal/gather/admission"
	"gather/internal/gather/config"
	"gather/internal/gather/content"
	"gather/internal/gather/httpapi"
	"gather/internal/gather/logging"
	"gather/internal/gather/metrics"
	"gather/internal/gather/session"
	"gather/internal/gather/store"
)

// Application holds core components for the service.
type Application struct {
	Config   *config.Config
	Pipeline *admission.Pipeline
	Sessions *session.Manager
	Auth     *session.AuthManager
	Store    *store.Store
	Metrics  *metrics.InMemoryMetrics

	logger logging.Logger
	server *http.Server
	ready  atomic.Bool
}

// NewApplication validates configuration and prepares the application.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdLogger(os.Stdout)
	}

	origin, err := admission.NewOriginValidator(cfg.AppURL)
	if err != nil {
		return nil, err
	}
	if origin.WeakMode() {
		logger.Warn("CONFIG", "no canonical app url configured, origin checks match the request host only", nil)
	}

	clock := admission.SystemClock{}
	pipeline, err := admission.NewPipeline(
		origin,
		admission.NewFixedWindowStore(clock),
		admission.NewSlidingWindowStore(clock),
		admission.DefaultRules(),
	)
	if err != nil {
		return nil, err
	}

	db := store.New()
	if cfg.SeedUserEmail != "" {
		hash, err := session.HashPassword(cfg.SeedUserPassword)
		if err != nil {
			return nil, err
		}
		db.SeedUser(session.User{
			ID:           uuid.NewString(),
			Email:        cfg.SeedUserEmail,
			Name:         cfg.SeedUserName,
			PasswordHash: hash,
		})
	}

	sessions := &session.Manager{Secure: cfg.Production}
	auth := session.NewAuthManager(db, cfg.Production)
	mets := metrics.NewInMemoryMetrics()

	var places *content.PlacesClient
	if cfg.MapsAPIKey != "" {
		places = content.NewPlacesClient(cfg.MapsAPIKey)
	}
	var giphy *content.GiphyClient
	if cfg.GiphyAPIKey != "" {
		giphy = content.NewGiphyClient(cfg.GiphyAPIKey)
	}

	app := &Application{
		Config:   cfg,
		Pipeline: pipeline,
		Sessions: sessions,
		Auth:     auth,
		Store:    db,
		Metrics:  mets,
		logger:   logger,
	}

	server, err := httpapi.NewServer(httpapi.ServerOptions{
		Pipeline:     pipeline,
		Sessions:     sessions,
		Auth:         auth,
		Store:        db,
		Content:      content.NewService(content.NewGeminiClient(cfg.GeminiAPIKey), logger),
		Places:       places,
		Giphy:        giphy,
		Logger:       logger,
		Metrics:      mets,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Ready:        app.ready.Load,
	})
	if err != nil {
		return nil, err
	}

	app.server = &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

// Start begins serving HTTP requests. It returns once the listener is
// bound; serving continues in the background until Shutdown.
func (app *Application) Start(ctx context.Context) error {
	if app == nil || app.server == nil {
		return errors.New("application is not initialized")
	}
	listener, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return err
	}
	app.ready.Store(true)
	app.logger.Info("APP", "listening", map[string]any{"addr": listener.Addr().String()})
	go func() {
		if err := app.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("APP", "serve failed", map[string]any{"error": err.Error()})
		}
	}()
	return nil
}

// Shutdown stops the HTTP server.
func (app *Application) Shutdown(ctx context.Context) error {
	if app == nil || app.server == nil {
		return nil
	}
	app.ready.Store(false)
	if ctx == nil {
		ctx = context.Background()
	}
	return app.server.Shutdown(ctx)
}
