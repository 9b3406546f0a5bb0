package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gather/internal/gather/admission"
	"gather/internal/gather/content"
	"gather/internal/gather/metrics"
	"gather/internal/gather/session"
	"gather/internal/gather/store"
)

const testAppURL = "https://gather.test"

func newTestServer(t *testing.T, clock admission.Clock) *Server {
	t.Helper()
	origin, err := admission.NewOriginValidator(testAppURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pipeline, err := admission.NewPipeline(
		origin,
		admission.NewFixedWindowStore(clock),
		admission.NewSlidingWindowStore(clock),
		admission.DefaultRules(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := store.New()
	hash, err := session.HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.SeedUser(session.User{ID: "u-1", Email: "demo@gather.app", Name: "Demo", PasswordHash: hash})

	srv, err := NewServer(ServerOptions{
		Pipeline: pipeline,
		Sessions: &session.Manager{},
		Auth:     session.NewAuthManager(st, false),
		Store:    st,
		Content:  content.NewService(nil, nil),
		Metrics:  metrics.NewInMemoryMetrics(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

type testResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Remaining *int            `json:"remaining"`
	ResetAt   int64           `json:"resetAt"`
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Origin", testAppURL)
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	var resp testResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func validEventBody() map[string]any {
	return map[string]any{
		"creatorName":  "Alice",
		"creatorEmail": "alice@example.com",
		"title":        "Garden Party",
		"description":  "An afternoon in the garden.",
		"date":         "2026-10-01",
		"time":         "18:00",
		"location":     "Backyard",
	}
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestCreateEvent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/events", validEventBody())
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}

	var event store.Event
	if err := json.Unmarshal(resp.Data, &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == "" || event.Title != "Garden Party" {
		t.Fatalf("unexpected event: %#v", event)
	}
	if event.Idea != "Garden Party" {
		t.Fatalf("idea should default to the title: %q", event.Idea)
	}
	sessionCookie(t, w)
}

func TestCreateEvent_CrossOriginRejected(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(validEventBody())
	r := httptest.NewRequest("POST", "/api/events", &buf)
	r.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	var resp testResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success || resp.Error != "Invalid request origin" {
		t.Fatalf("unexpected envelope: %#v", resp)
	}
	// Origin rejections carry no window state.
	if w.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatalf("origin rejection should not expose rate limit headers")
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	body := validEventBody()
	delete(body, "title")
	w, resp := doJSON(t, router, "POST", "/api/events", body)
	if w.Code != http.StatusBadRequest || resp.Error != "Missing required fields" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}

	body = validEventBody()
	body["creatorEmail"] = "not-an-email"
	w, resp = doJSON(t, router, "POST", "/api/events", body)
	if w.Code != http.StatusBadRequest || resp.Error != "Invalid email format" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}

	body = validEventBody()
	body["date"] = "10/01/2026"
	w, _ = doJSON(t, router, "POST", "/api/events", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date should 400, got %d", w.Code)
	}
}

func TestCreateEvent_IPRateLimit(t *testing.T) {
	t.Parallel()

	clock := &admission.FakeClock{Current: time.UnixMilli(0)}
	srv := newTestServer(t, clock)
	router := srv.Router()

	for i := 0; i < 5; i++ {
		w, _ := doJSON(t, router, "POST", "/api/events", validEventBody())
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass: %d %s", i+1, w.Code, w.Body.String())
		}
	}

	w, resp := doJSON(t, router, "POST", "/api/events", validEventBody())
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th request should be limited, got %d", w.Code)
	}
	if resp.Error != "Too many requests. Please slow down." {
		t.Fatalf("unexpected message %q", resp.Error)
	}
	if w.Header().Get("X-RateLimit-Limit") != "5" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected rate limit headers: %v", w.Header())
	}
	if w.Header().Get("X-RateLimit-Reset") != "60000" {
		t.Fatalf("reset header should be epoch ms: %q", w.Header().Get("X-RateLimit-Reset"))
	}

	clock.Advance(time.Minute + time.Millisecond)
	if w, _ := doJSON(t, router, "POST", "/api/events", validEventBody()); w.Code != http.StatusOK {
		t.Fatalf("request after window should pass: %d", w.Code)
	}
}

func TestUpdateEvent_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/events", validEventBody())
	owner := sessionCookie(t, w)
	var event store.Event
	if err := json.Unmarshal(resp.Data, &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := map[string]any{"title": "Hijacked"}

	// A different session gets a 403 and the event is untouched.
	w, resp = doJSON(t, router, "PUT", "/api/events/"+event.ID, update,
		&http.Cookie{Name: session.CookieName, Value: "someone-else"})
	if w.Code != http.StatusForbidden || resp.Error != "You can only modify events you created" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if got, _ := srv.store.Event(event.ID); got.Title != "Garden Party" {
		t.Fatalf("rejected update must not change the event: %#v", got)
	}

	// The owner succeeds.
	w, resp = doJSON(t, router, "PUT", "/api/events/"+event.ID, map[string]any{"title": "Rooftop Party"}, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update failed: %d %s", w.Code, w.Body.String())
	}
	var updated store.Event
	if err := json.Unmarshal(resp.Data, &updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Rooftop Party" || updated.Description != "An afternoon in the garden." {
		t.Fatalf("partial update wrong: %#v", updated)
	}
}

func TestDeleteEvent_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/events", validEventBody())
	owner := sessionCookie(t, w)
	var event store.Event
	if err := json.Unmarshal(resp.Data, &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, _ = doJSON(t, router, "DELETE", "/api/events/"+event.ID, nil,
		&http.Cookie{Name: session.CookieName, Value: "someone-else"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete should 403, got %d", w.Code)
	}

	w, _ = doJSON(t, router, "DELETE", "/api/events/"+event.ID, nil, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete failed: %d %s", w.Code, w.Body.String())
	}
	if _, ok := srv.store.Event(event.ID); ok {
		t.Fatalf("event should be gone")
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	w, resp := doJSON(t, srv.Router(), "GET", "/api/events/missing", nil)
	if w.Code != http.StatusNotFound || resp.Error != "Event not found" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestListEvents_MineFiltersBySession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, _ := doJSON(t, router, "POST", "/api/events", validEventBody())
	owner := sessionCookie(t, w)
	if w, _ := doJSON(t, router, "POST", "/api/events", validEventBody()); w.Code != http.StatusOK {
		t.Fatalf("second create failed: %d", w.Code)
	}

	_, resp := doJSON(t, router, "GET", "/api/events?session=mine", nil, owner)
	var mine []store.Event
	if err := json.Unmarshal(resp.Data, &mine); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 owned event, got %d", len(mine))
	}

	// A fresh session owns nothing and still gets an array, not null.
	_, resp = doJSON(t, router, "GET", "/api/events?session=mine", nil,
		&http.Cookie{Name: session.CookieName, Value: "fresh"})
	if string(resp.Data) != "[]" {
		t.Fatalf("empty listing should be [], got %s", resp.Data)
	}

	_, resp = doJSON(t, router, "GET", "/api/events", nil)
	var all []store.Event
	if err := json.Unmarshal(resp.Data, &all); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}
}

func TestRSVPFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/events", validEventBody())
	var event store.Event
	if err := json.Unmarshal(resp.Data, &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rsvp := map[string]any{
		"eventId":   event.ID,
		"name":      "Bob",
		"email":     "Bob@Example.com",
		"attending": true,
		"plusOne":   2,
	}
	w, _ = doJSON(t, router, "POST", "/api/rsvp", rsvp)
	if w.Code != http.StatusOK {
		t.Fatalf("rsvp failed: %d %s", w.Code, w.Body.String())
	}

	// Same email, different case.
	rsvp["email"] = "bob@example.COM"
	w, resp = doJSON(t, router, "POST", "/api/rsvp", rsvp)
	if w.Code != http.StatusConflict || resp.Error != "You have already RSVP'd to this event" {
		t.Fatalf("duplicate rsvp should 409: %d %s", w.Code, w.Body.String())
	}

	if got, _ := srv.store.Event(event.ID); got.GuestCount != 3 {
		t.Fatalf("guest count = %d, want 3", got.GuestCount)
	}

	_, resp = doJSON(t, router, "GET", "/api/rsvp?eventId="+event.ID, nil)
	var rsvps []store.RSVP
	if err := json.Unmarshal(resp.Data, &rsvps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rsvps) != 1 {
		t.Fatalf("expected 1 rsvp, got %d", len(rsvps))
	}
}

func TestRSVP_Validation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/rsvp", map[string]any{
		"eventId": "missing", "name": "Bob", "email": "bob@example.com", "attending": true,
	})
	if w.Code != http.StatusNotFound || resp.Error != "Event not found" {
		t.Fatalf("rsvp to missing event should 404: %d %s", w.Code, w.Body.String())
	}

	w, resp = doJSON(t, router, "POST", "/api/rsvp", map[string]any{
		"eventId": "e-1", "name": "Bob", "email": "bob@example.com",
	})
	if w.Code != http.StatusBadRequest || resp.Error != "Missing required fields" {
		t.Fatalf("missing attending should 400: %d %s", w.Code, w.Body.String())
	}

	w, resp = doJSON(t, router, "POST", "/api/rsvp", map[string]any{
		"eventId": "e-1", "name": "Bob", "email": "bob@example.com", "attending": true, "plusOne": 11,
	})
	if w.Code != http.StatusBadRequest || resp.Error != "Plus one count must be between 0 and 10" {
		t.Fatalf("oversized plus one should 400: %d %s", w.Code, w.Body.String())
	}
}

func TestAISuggestions_TemplateFallback(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/ai/suggestions", map[string]any{
		"idea": "gothic birthday party", "date": "2026-10-01", "time": "19:00", "location": "Seattle",
	})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("suggestion failed: %d %s", w.Code, w.Body.String())
	}
	var suggestion content.EventSuggestion
	if err := json.Unmarshal(resp.Data, &suggestion); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suggestion.Title == "" || len(suggestion.Itinerary) == 0 {
		t.Fatalf("unexpected suggestion: %#v", suggestion)
	}

	w, resp = doJSON(t, router, "POST", "/api/ai/suggestions", map[string]any{"idea": "party"})
	if w.Code != http.StatusBadRequest || resp.Error != "Missing required fields" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestGiphy_MockPathDoesNotChargeQuota(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()
	cookie := &http.Cookie{Name: session.CookieName, Value: "giphy-session"}

	// Well past the 20/hour quota; the canned path never charges it.
	for i := 0; i < 25; i++ {
		w, resp := doJSON(t, router, "POST", "/api/giphy", map[string]any{"query": "party"}, cookie)
		if w.Code != http.StatusOK || !resp.Success {
			t.Fatalf("request %d failed: %d %s", i+1, w.Code, w.Body.String())
		}
	}

	w, resp := doJSON(t, router, "POST", "/api/giphy", map[string]any{}, cookie)
	if w.Code != http.StatusBadRequest || resp.Error != "Query is required" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestGiphy_QuotaRejection(t *testing.T) {
	t.Parallel()

	clock := &admission.FakeClock{Current: time.UnixMilli(0)}
	srv := newTestServer(t, clock)
	router := srv.Router()

	caller := admission.Identity{Kind: admission.KindAnonymous, Subject: "heavy-user"}
	for i := 0; i < 20; i++ {
		srv.pipeline.RecordSubject(caller, admission.ClassGiphy)
	}

	w, resp := doJSON(t, router, "POST", "/api/giphy", map[string]any{"query": "party"},
		&http.Cookie{Name: session.CookieName, Value: "heavy-user"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("exhausted quota should 429, got %d", w.Code)
	}
	if resp.Error != "Image search limit reached. Please try again in an hour." {
		t.Fatalf("unexpected message %q", resp.Error)
	}
	if w.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatalf("quota rejection should carry rate limit headers")
	}
}

func TestPlacesSearch_RequiresAuth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	w, resp := doJSON(t, srv.Router(), "POST", "/api/places/search", map[string]any{"query": "venues"})
	if w.Code != http.StatusUnauthorized || resp.Success {
		t.Fatalf("unauthenticated search should 401: %d %s", w.Code, w.Body.String())
	}
}

func TestPlacesSearch_QuotaRejectionBody(t *testing.T) {
	t.Parallel()

	clock := &admission.FakeClock{Current: time.UnixMilli(0)}
	srv := newTestServer(t, clock)
	router := srv.Router()

	w, _ := doJSON(t, router, "POST", "/api/auth/login", map[string]any{
		"email": "demo@gather.app", "password": "hunter2!",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.AuthCookieName {
			authCookie = c
		}
	}
	if authCookie == nil {
		t.Fatalf("no auth cookie in login response")
	}

	caller := admission.Identity{Kind: admission.KindAuthenticated, Subject: "u-1"}
	for i := 0; i < 10; i++ {
		srv.pipeline.RecordSubject(caller, admission.ClassPlaces)
	}

	w, resp := doJSON(t, router, "POST", "/api/places/search", map[string]any{"query": "venues"}, authCookie)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("exhausted quota should 429, got %d", w.Code)
	}
	if resp.Error != "Daily venue search limit reached. Please try again tomorrow." {
		t.Fatalf("unexpected message %q", resp.Error)
	}
	if resp.Remaining == nil || *resp.Remaining != 0 {
		t.Fatalf("quota rejection should report remaining 0: %#v", resp.Remaining)
	}
	if resp.ResetAt != clock.Current.Add(24*time.Hour).UnixMilli() {
		t.Fatalf("unexpected resetAt %d", resp.ResetAt)
	}
}

func TestPlacesSearch_WithoutClientIsConfigError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, _ := doJSON(t, router, "POST", "/api/auth/login", map[string]any{
		"email": "demo@gather.app", "password": "hunter2!",
	})
	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.AuthCookieName {
			authCookie = c
		}
	}

	w, resp := doJSON(t, router, "POST", "/api/places/search", map[string]any{"query": "venues"}, authCookie)
	if w.Code != http.StatusInternalServerError || resp.Error != "API configuration error" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestLoginLogout(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w, resp := doJSON(t, router, "POST", "/api/auth/login", map[string]any{
		"email": "demo@gather.app", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized || resp.Error != "Invalid email or password" {
		t.Fatalf("bad credentials should 401: %d %s", w.Code, w.Body.String())
	}

	w, resp = doJSON(t, router, "POST", "/api/auth/login", map[string]any{
		"email": "demo@gather.app", "password": "hunter2!",
	})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var login loginResponse
	if err := json.Unmarshal(resp.Data, &login); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login.UserID != "u-1" || login.Email != "demo@gather.app" {
		t.Fatalf("unexpected login response: %#v", login)
	}

	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.AuthCookieName {
			authCookie = c
		}
	}
	if authCookie == nil {
		t.Fatalf("no auth cookie in login response")
	}

	if w, _ := doJSON(t, router, "POST", "/api/auth/logout", nil, authCookie); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}

	// The replayed token no longer authenticates.
	w, _ = doJSON(t, router, "POST", "/api/places/search", map[string]any{"query": "venues"}, authCookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("replayed cookie should 401, got %d", w.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz = %d", w.Code)
	}
}

func TestDecodeJSON_RejectsOversizedAndTrailingData(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, admission.SystemClock{})
	router := srv.Router()

	r := httptest.NewRequest("POST", "/api/events", strings.NewReader(`{"a":1}{"b":2}`))
	r.Header.Set("Origin", testAppURL)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("trailing data should 400, got %d", w.Code)
	}

	huge := `{"title":"` + strings.Repeat("x", defaultMaxBodyBytes+10) + `"}`
	r = httptest.NewRequest("POST", "/api/events", strings.NewReader(huge))
	r.Header.Set("Origin", testAppURL)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body should 400, got %d", w.Code)
	}
}
