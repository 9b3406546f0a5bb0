package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"gather/internal/gather/admission"
	"gather/internal/gather/store"
	"gather/internal/gather/validate"
)

type rsvpRequest struct {
	EventID   string `json:"eventId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Attending *bool  `json:"attending"`
	PlusOne   int    `json:"plusOne"`
}

func (s *Server) handleCreateRSVP(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "rsvp") {
		return
	}
	if !s.allowIP(w, r, admission.ClassMutation, "rsvp") {
		return
	}

	var req rsvpRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.EventID == "" || req.Name == "" || req.Email == "" || req.Attending == nil {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := validate.Length(req.Name, "Name", 1, 100); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Email(req.Email); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlusOne < 0 || req.PlusOne > 10 {
		writeFailure(w, http.StatusBadRequest, "Plus one count must be between 0 and 10")
		return
	}

	rsvp, err := s.store.CreateRSVP(store.RSVP{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		Name:      req.Name,
		Email:     req.Email,
		Attending: *req.Attending,
		PlusOne:   req.PlusOne,
		CreatedAt: time.Now(),
	})
	if err != nil {
		writeError(w, err, "Failed to create RSVP")
		return
	}

	s.logger.Info("RSVP", "rsvp recorded", map[string]any{
		"eventId":   rsvp.EventID,
		"rsvpId":    rsvp.ID,
		"attending": rsvp.Attending,
	})
	writeSuccess(w, rsvp)
}

func (s *Server) handleListRSVPs(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		writeFailure(w, http.StatusBadRequest, "Event ID is required")
		return
	}
	rsvps := s.store.RSVPsByEvent(eventID)
	if rsvps == nil {
		rsvps = []store.RSVP{}
	}
	writeSuccess(w, rsvps)
}
