package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gather/internal/gather/admission"
)

// AuthCookieName is the login session cookie.
const AuthCookieName = "gather_auth"

// AuthSession is a server-side login session record.
type AuthSession struct {
	UserID    string
	Email     string
	Name      string
	CreatedAt time.Time
}

// User is an account the login flow validates against.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
}

// UserSource looks up accounts by email.
type UserSource interface {
	UserByEmail(email string) (User, bool)
}

// AuthManager issues opaque login session tokens backed by server-side
// records. Tokens live in a cookie; the record is the source of truth,
// so logout invalidates a replayed cookie.
type AuthManager struct {
	users  UserSource
	secure bool

	mu       sync.Mutex
	sessions map[string]AuthSession
}

// NewAuthManager constructs an AuthManager.
func NewAuthManager(users UserSource, secure bool) *AuthManager {
	return &AuthManager{
		users:    users,
		secure:   secure,
		sessions: make(map[string]AuthSession),
	}
}

// Login verifies credentials and issues a session cookie. The error is
// the same for unknown email and wrong password.
func (a *AuthManager) Login(w http.ResponseWriter, email, password string) (AuthSession, error) {
	user, ok := a.users.UserByEmail(email)
	if ok {
		ok = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) == nil
	}
	if !ok {
		return AuthSession{}, admission.Wrap(admission.CodeUnauthenticated, "Invalid email or password", nil)
	}

	token := uuid.NewString()
	sess := AuthSession{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: time.Now(),
	}
	a.mu.Lock()
	a.sessions[token] = sess
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Logout destroys the server-side session and expires the cookie.
func (a *AuthManager) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		a.mu.Lock()
		delete(a.sessions, cookie.Value)
		a.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth resolves the login session or fails with an
// unauthenticated error.
func (a *AuthManager) RequireAuth(r *http.Request) (AuthSession, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return AuthSession{}, admission.ErrUnauthenticated
	}
	a.mu.Lock()
	sess, ok := a.sessions[cookie.Value]
	a.mu.Unlock()
	if !ok {
		return AuthSession{}, admission.ErrUnauthenticated
	}
	return sess, nil
}

// Identity converts a login session into the shared identity form. The
// authenticated namespace never mixes with anonymous session tokens.
func (s AuthSession) Identity() admission.Identity {
	return admission.Identity{Kind: admission.KindAuthenticated, Subject: s.UserID}
}

// HashPassword hashes a password for account seeding.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
