package admission

// IdentityKind distinguishes the two identity namespaces. They are never
// merged: an authenticated user id and an anonymous session token compare
// unequal even if the raw strings collide.
type IdentityKind string

const (
	// KindAnonymous is a browser session token minted on first visit.
	KindAnonymous IdentityKind = "anonymous"
	// KindAuthenticated is a server-validated login user id.
	KindAuthenticated IdentityKind = "authenticated"
)

// Identity is the subject of rate limiting and ownership checks.
type Identity struct {
	Kind    IdentityKind
	Subject string
}

// Zero reports whether the identity is unset.
func (id Identity) Zero() bool {
	return id.Subject == ""
}

// Equal reports whether two identities name the same subject in the same
// namespace.
func (id Identity) Equal(other Identity) bool {
	return id.Kind == other.Kind && id.Subject == other.Subject
}

// String renders the identity for rate-limit keys and audit logs.
func (id Identity) String() string {
	return string(id.Kind) + ":" + id.Subject
}
