package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gather/internal/gather/admission"
	"gather/internal/gather/store"
	"gather/internal/gather/validate"
)

const maxItineraryItems = 20

const recentEventsLimit = 50

type eventRequest struct {
	CreatorName  string       `json:"creatorName"`
	CreatorEmail string       `json:"creatorEmail"`
	Idea         string       `json:"idea"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Location     string       `json:"location"`
	Venue        *store.Venue `json:"venue"`
	ImageURL     string       `json:"imageUrl"`
	Itinerary    []string     `json:"itinerary"`
}

// validateEventFields applies the field rules shared by create and
// update.
func validateEventFields(req *eventRequest) error {
	if err := validate.Length(req.CreatorName, "Creator name", 1, 100); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Email(req.CreatorEmail); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Length(req.Title, "Title", 1, 200); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Length(req.Description, "Description", 1, 5000); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Date(req.Date); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Time(req.Time); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if err := validate.Length(req.Location, "Location", 1, 500); err != nil {
		return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
	}
	if len(req.Itinerary) > maxItineraryItems {
		return admission.Wrap(admission.CodeInvalidInput, "Itinerary cannot exceed 20 items", nil)
	}
	return nil
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "events") {
		return
	}
	if !s.allowIP(w, r, admission.ClassMutation, "events") {
		return
	}
	caller := s.sessions.GetOrCreate(w, r)

	var req eventRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CreatorName == "" || req.CreatorEmail == "" || req.Title == "" ||
		req.Description == "" || req.Date == "" || req.Time == "" || req.Location == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := validateEventFields(&req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	idea := req.Idea
	if idea == "" {
		idea = req.Title
	}
	now := time.Now()
	event := s.store.CreateEvent(store.Event{
		ID:           uuid.NewString(),
		Owner:        caller,
		CreatorName:  req.CreatorName,
		CreatorEmail: req.CreatorEmail,
		Idea:         idea,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Venue:        req.Venue,
		ImageURL:     req.ImageURL,
		Itinerary:    req.Itinerary,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	s.logger.Info("EVENT", "event created", map[string]any{
		"eventId": event.ID,
		"owner":   caller.String(),
		"title":   event.Title,
	})
	writeSuccess(w, event)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("session") == "mine" {
		caller := s.sessions.GetOrCreate(w, r)
		events := s.store.EventsByOwner(caller)
		if events == nil {
			events = []store.Event{}
		}
		writeSuccess(w, events)
		return
	}
	writeSuccess(w, s.store.RecentEvents(recentEventsLimit))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, ok := s.store.Event(id)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Event not found")
		return
	}
	writeSuccess(w, event)
}

type eventUpdateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Date        *string      `json:"date"`
	Time        *string      `json:"time"`
	Location    *string      `json:"location"`
	Venue       *store.Venue `json:"venue"`
	ImageURL    *string      `json:"imageUrl"`
	Itinerary   []string     `json:"itinerary"`
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "events") {
		return
	}
	id := mux.Vars(r)["id"]
	caller := s.sessions.GetOrCreate(w, r)

	owner, ok := s.store.EventOwner(id)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Event not found")
		return
	}
	if !s.checkOwnership(w, r, id, owner, caller) {
		return
	}

	var req eventUpdateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateEventUpdate(&req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	event, ok := s.store.UpdateEvent(id, func(event *store.Event) {
		if req.Title != nil {
			event.Title = *req.Title
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Date != nil {
			event.Date = *req.Date
		}
		if req.Time != nil {
			event.Time = *req.Time
		}
		if req.Location != nil {
			event.Location = *req.Location
		}
		if req.Venue != nil {
			event.Venue = req.Venue
		}
		if req.ImageURL != nil {
			event.ImageURL = *req.ImageURL
		}
		if req.Itinerary != nil {
			event.Itinerary = req.Itinerary
		}
	})
	if !ok {
		writeFailure(w, http.StatusNotFound, "Event not found")
		return
	}

	s.logger.Info("EVENT", "event updated", map[string]any{
		"eventId": id,
		"owner":   caller.String(),
	})
	writeSuccess(w, event)
}

func validateEventUpdate(req *eventUpdateRequest) error {
	if req.Title != nil {
		if err := validate.Length(*req.Title, "Title", 1, 200); err != nil {
			return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
		}
	}
	if req.Description != nil {
		if err := validate.Length(*req.Description, "Description", 1, 5000); err != nil {
			return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
		}
	}
	if req.Date != nil {
		if err := validate.Date(*req.Date); err != nil {
			return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
		}
	}
	if req.Time != nil {
		if err := validate.Time(*req.Time); err != nil {
			return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
		}
	}
	if req.Location != nil {
		if err := validate.Length(*req.Location, "Location", 1, 500); err != nil {
			return admission.Wrap(admission.CodeInvalidInput, err.Error(), nil)
		}
	}
	if len(req.Itinerary) > maxItineraryItems {
		return admission.Wrap(admission.CodeInvalidInput, "Itinerary cannot exceed 20 items", nil)
	}
	return nil
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "events") {
		return
	}
	id := mux.Vars(r)["id"]
	caller := s.sessions.GetOrCreate(w, r)

	owner, ok := s.store.EventOwner(id)
	if !ok {
		writeFailure(w, http.StatusNotFound, "Event not found")
		return
	}
	if !s.checkOwnership(w, r, id, owner, caller) {
		return
	}
	if !s.store.DeleteEvent(id) {
		writeFailure(w, http.StatusNotFound, "Event not found")
		return
	}

	s.logger.Info("EVENT", "event deleted", map[string]any{
		"eventId": id,
		"owner":   caller.String(),
	})
	writeSuccess(w, nil)
}
