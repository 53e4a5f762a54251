package http

import (
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/log"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "User", log.OpCreate)
		return
	}
	session, err := s.svc.Auth.Register(r.Context(), sanitizeInput(req.Name), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "User", log.OpCreate)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		JSON(sessionJSON{Token: session.Token, User: newUserJSON(session.User)}).
		Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "User", log.OpLogin)
		return
	}
	session, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "User", log.OpLogin)
		return
	}
	NewJSONResponse().
		JSON(sessionJSON{Token: session.Token, User: newUserJSON(session.User)}).
		Write(w)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Auth.Profile(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "User", log.OpRead)
		return
	}
	NewJSONResponse().JSON(newUserJSON(u)).Write(w)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "User", log.OpUpdate)
		return
	}
	u, err := s.svc.Auth.UpdateProfile(r.Context(), auth.UserIDFrom(r.Context()), sanitizeInput(req.Name), req.Email)
	if err != nil {
		s.writeError(w, r, err, "User", log.OpUpdate)
		return
	}
	NewJSONResponse().JSON(newUserJSON(u)).Write(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "User", log.OpUpdate)
		return
	}
	err := s.svc.Auth.ChangePassword(r.Context(), auth.UserIDFrom(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.writeError(w, r, err, "User", log.OpUpdate)
		return
	}
	NewJSONResponse().Message("Password updated successfully").Write(w)
}
