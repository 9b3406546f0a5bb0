package httpapi

import (
	"net/http"

	"gather/internal/gather/admission"
	"gather/internal/gather/session"
)

// checkOrigin runs the CSRF gate and writes the rejection when it fails.
// Rejections are flat 403s with no rate-limit headers.
func (s *Server) checkOrigin(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	decision, err := s.pipeline.CheckOrigin(r.Method, r.Header.Get("Origin"), r.Header.Get("Referer"), r.Host)
	if err == nil {
		s.metrics.IncAdmission("origin", "allowed", endpoint)
		return true
	}
	s.metrics.IncAdmission("origin", "rejected", endpoint)
	s.logger.Security("CSRF", "invalid origin blocked", map[string]any{
		"reason":  decision.Reason,
		"origin":  r.Header.Get("Origin"),
		"referer": r.Header.Get("Referer"),
		"method":  r.Method,
		"path":    r.URL.Path,
		"ip":      clientIP(r),
	})
	writeFailure(w, http.StatusForbidden, "Invalid request origin")
	return false
}

// allowIP runs the per-IP fixed window gate and writes the 429 with
// rate-limit headers when the window is exhausted.
func (s *Server) allowIP(w http.ResponseWriter, r *http.Request, class admission.EndpointClass, endpoint string) bool {
	decision, err := s.pipeline.AllowIP(clientIP(r), class)
	if err == nil {
		s.metrics.IncAdmission("ratelimit", "allowed", endpoint)
		return true
	}
	s.metrics.IncAdmission("ratelimit", "rejected", endpoint)
	s.logger.Security("RATE_LIMIT", "ip rate limit exceeded", map[string]any{
		"ip":      clientIP(r),
		"path":    r.URL.Path,
		"class":   string(class),
		"resetAt": decision.ResetAt.UnixMilli(),
	})
	setRateLimitHeaders(w, decision)
	writeError(w, err, "Too many requests")
	return false
}

// requireAuth resolves the login session or writes a 401.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request, endpoint string) (session.AuthSession, bool) {
	sess, err := s.auth.RequireAuth(r)
	if err != nil {
		s.metrics.IncAdmission("auth", "rejected", endpoint)
		writeError(w, err, "Unauthorized")
		return session.AuthSession{}, false
	}
	s.metrics.IncAdmission("auth", "allowed", endpoint)
	return sess, true
}

// checkOwnership compares an event's recorded owner with the caller and
// writes the 403 on mismatch. The mismatch is logged with both
// identities for audit; the event body is never written on this path.
func (s *Server) checkOwnership(w http.ResponseWriter, r *http.Request, eventID string, owner, caller admission.Identity) bool {
	if err := s.pipeline.CheckOwnership(owner, caller); err != nil {
		s.metrics.IncAdmission("ownership", "rejected", r.URL.Path)
		s.logger.Security("OWNERSHIP", "ownership mismatch", map[string]any{
			"eventId": eventID,
			"owner":   owner.String(),
			"caller":  caller.String(),
			"method":  r.Method,
			"path":    r.URL.Path,
			"ip":      clientIP(r),
		})
		writeError(w, err, "Forbidden")
		return false
	}
	s.metrics.IncAdmission("ownership", "allowed", r.URL.Path)
	return true
}
