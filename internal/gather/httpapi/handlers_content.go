package httpapi

import (
	"net/http"

	"gather/internal/gather/admission"
	"gather/internal/gather/content"
)

type suggestionRequest struct {
	Idea     string `json:"idea"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

func (s *Server) handleAISuggestions(w http.ResponseWriter, r *http.Request) {
	if !s.allowIP(w, r, admission.ClassSuggestion, "ai_suggestions") {
		return
	}
	var req suggestionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Idea == "" || req.Date == "" || req.Time == "" || req.Location == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	suggestion, err := s.content.GenerateEvent(r.Context(), req.Idea, req.Location, req.Date+" at "+req.Time)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to generate AI suggestions")
		return
	}
	writeSuccess(w, suggestion)
}

type venueSuggestRequest struct {
	Idea                string `json:"idea"`
	ApproximateLocation string `json:"approximateLocation"`
}

func (s *Server) handleVenueSuggest(w http.ResponseWriter, r *http.Request) {
	if !s.allowIP(w, r, admission.ClassSuggestion, "venues_suggest") {
		return
	}
	var req venueSuggestRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Idea == "" || req.ApproximateLocation == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	venues, err := s.content.GenerateVenues(r.Context(), req.Idea, req.ApproximateLocation)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to generate venue suggestions")
		return
	}
	writeSuccess(w, venues)
}

type giphyRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (s *Server) handleGiphySearch(w http.ResponseWriter, r *http.Request) {
	caller := s.sessions.GetOrCreate(w, r)

	var req giphyRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		writeFailure(w, http.StatusBadRequest, "Query is required")
		return
	}

	decision, err := s.pipeline.CheckSubject(caller, admission.ClassGiphy)
	if err != nil {
		s.metrics.IncAdmission("ratelimit", "rejected", "giphy")
		setRateLimitHeaders(w, decision)
		writeError(w, err, "Too many requests")
		return
	}
	s.metrics.IncAdmission("ratelimit", "allowed", "giphy")

	// Without a provider key the flow stays usable on canned data, and
	// the quota is not charged: nothing metered happened.
	if s.giphy == nil {
		writeSuccess(w, content.MockGifImages())
		return
	}

	images, err := s.giphy.Search(r.Context(), req.Query, req.Limit, req.Offset)
	if err != nil {
		s.metrics.IncUpstream("giphy", "error")
		s.logger.Error("GIPHY", "search failed", map[string]any{"error": err.Error()})
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}
	s.metrics.IncUpstream("giphy", "ok")
	s.pipeline.RecordSubject(caller, admission.ClassGiphy)
	writeSuccess(w, images)
}
