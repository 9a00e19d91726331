package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.users.Register(r.Context(), req.Email, req.Password, req.Name)
	s.metrics.AuthEvent("register", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to register user")
		return
	}

	s.writeSession(w, http.StatusCreated, sess, "User registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	s.metrics.AuthEvent("login", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to login")
		return
	}

	s.writeSession(w, http.StatusOK, sess, "Login successful")
}

func (s *Server) writeSession(w http.ResponseWriter, status int, sess *services.Session, message string) {
	s.setAuthCookie(w, sess.Token)
	writeSuccess(w, status, authResponse{User: sess.User, Token: sess.Token}, message)
}

// handleLogout needs no session: it always clears the cookie and succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	s.metrics.AuthEvent("logout", nil)
	writeSuccess(w, http.StatusOK, nil, "Logged out successfully")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	user, err := s.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to get user")
		return
	}

	writeSuccess(w, http.StatusOK, user, "")
}
