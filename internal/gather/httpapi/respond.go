package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"gather/internal/gather/admission"
)

const defaultMaxBodyBytes = 1 << 20

// apiResponse is the JSON envelope every route returns.
type apiResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	ResetAt   int64  `json:"resetAt,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

// writeError maps a typed error to its HTTP status. Internal details
// never reach the client; unknown errors collapse to a generic message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusForCode(admission.CodeOf(err))
	msg := fallback
	var appErr *admission.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	writeFailure(w, status, msg)
}

func statusForCode(code admission.ErrorCode) int {
	switch code {
	case admission.CodeInvalidInput:
		return http.StatusBadRequest
	case admission.CodeOriginRejected, admission.CodeForbidden:
		return http.StatusForbidden
	case admission.CodeRateLimited:
		return http.StatusTooManyRequests
	case admission.CodeUnauthenticated:
		return http.StatusUnauthorized
	case admission.CodeNotFound:
		return http.StatusNotFound
	case admission.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// setRateLimitHeaders exposes the window state so clients can back off.
// Reset is epoch milliseconds.
func setRateLimitHeaders(w http.ResponseWriter, decision admission.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.UnixMilli(), 10))
}

// decodeJSON reads a bounded JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return admission.ErrInvalidInput
	}
	maxBytes := s.maxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return admission.ErrInvalidInput
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return admission.ErrInvalidInput
	}
	return nil
}
