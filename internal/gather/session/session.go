// Package session resolves caller identity from cookies.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"gather/internal/gather/admission"
)

// CookieName is the anonymous session cookie.
const CookieName = "gather_session"

// cookieMaxAge is 7 days.
const cookieMaxAge = 7 * 24 * 60 * 60

// Manager mints and resolves anonymous subject identifiers. The token is
// an opaque random value; it is never validated against server-side
// state and stays stable for the cookie's lifetime.
type Manager struct {
	// Secure marks minted cookies Secure; enable in production.
	Secure bool
}

// Resolve returns the caller's anonymous identity, if any.
func (m *Manager) Resolve(r *http.Request) (admission.Identity, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return admission.Identity{}, false
	}
	return admission.Identity{Kind: admission.KindAnonymous, Subject: cookie.Value}, true
}

// GetOrCreate resolves the anonymous identity, minting a fresh token and
// scheduling the cookie when none exists. The minted cookie is also
// attached to the request so a second resolve within the same request
// sees the same subject before the write round-trips.
func (m *Manager) GetOrCreate(w http.ResponseWriter, r *http.Request) admission.Identity {
	if id, ok := m.Resolve(r); ok {
		return id
	}
	token := uuid.NewString()
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
	r.AddCookie(cookie)
	return admission.Identity{Kind: admission.KindAnonymous, Subject: token}
}

// Clear expires the anonymous session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
