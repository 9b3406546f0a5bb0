// Package store provides the volatile in-memory data store for events,
// RSVPs and accounts. Process restart drops everything; durability is an
// explicit non-goal.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gather/internal/gather/admission"
	"gather/internal/gather/session"
)

// Venue is an optional venue attachment on an event.
type Venue struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	PlaceID     string  `json:"placeId,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	PhotoURL    string  `json:"photoUrl,omitempty"`
}

// Event is an owned resource. Owner is set at creation, never changed by
// updates, and never serialized to clients.
type Event struct {
	ID           string             `json:"id"`
	Owner        admission.Identity `json:"-"`
	CreatorName  string             `json:"creatorName"`
	CreatorEmail string             `json:"creatorEmail"`
	Idea         string             `json:"idea"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Date         string             `json:"date"`
	Time         string             `json:"time"`
	Location     string             `json:"location"`
	Venue        *Venue             `json:"venue,omitempty"`
	ImageURL     string             `json:"imageUrl,omitempty"`
	Itinerary    []string           `json:"itinerary,omitempty"`
	GuestCount   int                `json:"guestCount"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// RSVP is a guest response to an event.
type RSVP struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Attending bool      `json:"attending"`
	PlusOne   int       `json:"plusOne"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store holds all application data behind one mutex. Operations are
// in-memory and CPU-only, so a single lock does not serialize anything
// expensive.
type Store struct {
	mu     sync.Mutex
	events map[string]*Event
	rsvps  map[string][]RSVP
	users  map[string]session.User
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		events: make(map[string]*Event),
		rsvps:  make(map[string][]RSVP),
		users:  make(map[string]session.User),
	}
}

// CreateEvent inserts an event.
func (s *Store) CreateEvent(event Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := event
	s.events[event.ID] = &stored
	return stored
}

// Event returns an event by id.
func (s *Store) Event(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return Event{}, false
	}
	return *event, true
}

// EventOwner returns only the recorded owner of an event. The ownership
// gate needs nothing else, so the rest of the record stays private.
func (s *Store) EventOwner(id string) (admission.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return admission.Identity{}, false
	}
	return event.Owner, true
}

// EventsByOwner returns the events created by one identity.
func (s *Store) EventsByOwner(owner admission.Identity) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []Event
	for _, event := range s.events {
		if event.Owner.Equal(owner) {
			events = append(events, *event)
		}
	}
	sortNewestFirst(events)
	return events
}

// RecentEvents returns up to limit events, newest first.
func (s *Store) RecentEvents(limit int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, *event)
	}
	sortNewestFirst(events)
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}

// UpdateEvent applies a mutation to an event and stamps UpdatedAt. The
// apply callback cannot change the owner: it is restored afterwards.
func (s *Store) UpdateEvent(id string, apply func(*Event)) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return Event{}, false
	}
	owner := event.Owner
	apply(event)
	event.Owner = owner
	event.UpdatedAt = time.Now()
	return *event, true
}

// DeleteEvent removes an event and its RSVPs.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false
	}
	delete(s.events, id)
	delete(s.rsvps, id)
	return true
}

// CreateRSVP appends an RSVP after checking for a duplicate email on the
// same event. The check and the append share one lock acquisition so two
// concurrent submissions cannot both pass. Email comparison is
// case-insensitive.
func (s *Store) CreateRSVP(rsvp RSVP) (RSVP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[rsvp.EventID]
	if !ok {
		return RSVP{}, admission.Wrap(admission.CodeNotFound, "Event not found", nil)
	}
	for _, existing := range s.rsvps[rsvp.EventID] {
		if strings.EqualFold(existing.Email, rsvp.Email) {
			return RSVP{}, admission.Wrap(admission.CodeConflict, "You have already RSVP'd to this event", nil)
		}
	}
	s.rsvps[rsvp.EventID] = append(s.rsvps[rsvp.EventID], rsvp)
	event.GuestCount = s.guestCountLocked(rsvp.EventID)
	event.UpdatedAt = time.Now()
	return rsvp, nil
}

// RSVPsByEvent returns the RSVPs recorded for an event.
func (s *Store) RSVPsByEvent(eventID string) []RSVP {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsvps := s.rsvps[eventID]
	out := make([]RSVP, len(rsvps))
	copy(out, rsvps)
	return out
}

// GuestCount totals attending guests, counting plus-ones.
func (s *Store) GuestCount(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestCountLocked(eventID)
}

func (s *Store) guestCountLocked(eventID string) int {
	total := 0
	for _, rsvp := range s.rsvps[eventID] {
		if rsvp.Attending {
			total += 1 + rsvp.PlusOne
		}
	}
	return total
}

// SeedUser registers an account for the login flow.
func (s *Store) SeedUser(user session.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Email)] = user
}

// UserByEmail looks up an account. Implements session.UserSource.
func (s *Store) UserByEmail(email string) (session.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.ToLower(email)]
	return user, ok
}

func sortNewestFirst(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}
