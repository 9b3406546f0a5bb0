package httpapi

import (
	"net/http"

	"gather/internal/gather/admission"
)

type placesSearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

func (s *Server) handlePlacesSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireAuth(w, r, "places_search")
	if !ok {
		return
	}
	caller := sess.Identity()

	var req placesSearchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		writeFailure(w, http.StatusBadRequest, "Query is required")
		return
	}

	// Check the quota before spending money on the upstream call; charge
	// it only after the call succeeds so aborted attempts cost nothing.
	decision, err := s.pipeline.CheckSubject(caller, admission.ClassPlaces)
	if err != nil {
		s.metrics.IncAdmission("ratelimit", "rejected", "places_search")
		s.logger.Security("RATE_LIMIT", "places quota exhausted", map[string]any{
			"subject": caller.String(),
			"resetAt": decision.ResetAt.UnixMilli(),
		})
		setRateLimitHeaders(w, decision)
		zero := 0
		writeJSON(w, http.StatusTooManyRequests, apiResponse{
			Success:   false,
			Error:     ruleMessage(s.pipeline, admission.ClassPlaces),
			Remaining: &zero,
			ResetAt:   decision.ResetAt.UnixMilli(),
		})
		return
	}
	s.metrics.IncAdmission("ratelimit", "allowed", "places_search")

	if s.places == nil {
		writeFailure(w, http.StatusInternalServerError, "API configuration error")
		return
	}
	venues, err := s.places.SearchText(r.Context(), req.Query, req.Location)
	if err != nil {
		s.metrics.IncUpstream("places", "error")
		s.logger.Error("PLACES", "venue search failed", map[string]any{"error": err.Error()})
		writeFailure(w, http.StatusInternalServerError, "Failed to search venues")
		return
	}
	s.metrics.IncUpstream("places", "ok")
	s.pipeline.RecordSubject(caller, admission.ClassPlaces)

	after, _ := s.pipeline.CheckSubject(caller, admission.ClassPlaces)
	remaining := after.Remaining
	writeJSON(w, http.StatusOK, apiResponse{
		Success:   true,
		Data:      venues,
		Remaining: &remaining,
		ResetAt:   after.ResetAt.UnixMilli(),
	})
}

func (s *Server) handlePlacesPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r, "places_photo"); !ok {
		return
	}
	photoName := r.URL.Query().Get("photoName")
	if photoName == "" {
		writeFailure(w, http.StatusBadRequest, "Photo name required")
		return
	}
	if s.places == nil {
		writeFailure(w, http.StatusInternalServerError, "API configuration error")
		return
	}

	data, contentType, err := s.places.FetchPhoto(r.Context(), photoName, r.URL.Query().Get("maxWidth"))
	if err != nil {
		s.metrics.IncUpstream("places_photo", "error")
		s.logger.Error("PLACES", "photo fetch failed", map[string]any{"error": err.Error()})
		writeFailure(w, http.StatusInternalServerError, "Failed to load photo")
		return
	}
	s.metrics.IncUpstream("places_photo", "ok")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func ruleMessage(p *admission.Pipeline, class admission.EndpointClass) string {
	if rule, ok := p.Rule(class); ok && rule.Message != "" {
		return rule.Message
	}
	return "Too many requests"
}
