package httpapi

import (
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "auth_login") {
		return
	}
	var req loginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := s.auth.Login(w, req.Email, req.Password)
	if err != nil {
		s.logger.Security("AUTH", "login rejected", map[string]any{
			"email": req.Email,
			"ip":    clientIP(r),
		})
		writeError(w, err, "Invalid email or password")
		return
	}
	s.logger.Info("AUTH", "login", map[string]any{"userId": sess.UserID})
	writeSuccess(w, loginResponse{UserID: sess.UserID, Email: sess.Email, Name: sess.Name})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(w, r, "auth_logout") {
		return
	}
	s.auth.Logout(w, r)
	writeSuccess(w, nil)
}
