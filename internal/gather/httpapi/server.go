// Package httpapi serves the application's HTTP surface.
package httpapi

import (
	"errors"

	"gather/internal/gather/admission"
	"gather/internal/gather/content"
	"gather/internal/gather/logging"
	"gather/internal/gather/metrics"
	"gather/internal/gather/session"
	"gather/internal/gather/store"
)

// Server holds the dependencies route handlers need.
type Server struct {
	pipeline *admission.Pipeline
	sessions *session.Manager
	auth     *session.AuthManager
	store    *store.Store
	content  *content.Service
	places   *content.PlacesClient
	giphy    *content.GiphyClient
	logger   logging.Logger
	metrics  *metrics.InMemoryMetrics

	maxBodyBytes int64
	ready        func() bool
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Pipeline *admission.Pipeline
	Sessions *session.Manager
	Auth     *session.AuthManager
	Store    *store.Store
	Content  *content.Service
	Places   *content.PlacesClient
	Giphy    *content.GiphyClient
	Logger   logging.Logger
	Metrics  *metrics.InMemoryMetrics

	MaxBodyBytes int64
	Ready        func() bool
}

// NewServer constructs a Server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Pipeline == nil {
		return nil, errors.New("admission pipeline is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if opts.Auth == nil {
		return nil, errors.New("auth manager is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Content == nil {
		return nil, errors.New("content service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}
	ready := opts.Ready
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Server{
		pipeline:     opts.Pipeline,
		sessions:     opts.Sessions,
		auth:         opts.Auth,
		store:        opts.Store,
		content:      opts.Content,
		places:       opts.Places,
		giphy:        opts.Giphy,
		logger:       logger,
		metrics:      opts.Metrics,
		maxBodyBytes: opts.MaxBodyBytes,
		ready:        ready,
	}, nil
}
