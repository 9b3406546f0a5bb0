package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.observe)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", s.handleGetEvent).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", s.handleUpdateEvent).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", s.handleDeleteEvent).Methods(http.MethodDelete)
	api.HandleFunc("/rsvp", s.handleCreateRSVP).Methods(http.MethodPost)
	api.HandleFunc("/rsvp", s.handleListRSVPs).Methods(http.MethodGet)
	api.HandleFunc("/ai/suggestions", s.handleAISuggestions).Methods(http.MethodPost)
	api.HandleFunc("/venues/suggest", s.handleVenueSuggest).Methods(http.MethodPost)
	api.HandleFunc("/places/search", s.handlePlacesSearch).Methods(http.MethodPost)
	api.HandleFunc("/places/photo", s.handlePlacesPhoto).Methods(http.MethodGet)
	api.HandleFunc("/giphy", s.handleGiphySearch).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	return r
}

// observe records per-route latency.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		s.metrics.ObserveLatency(route, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}
