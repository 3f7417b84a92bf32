package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"grimm.is/ifctl/internal/audit"
	"grimm.is/ifctl/internal/auth"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"auth_token"`
}

// handleLogin exchanges the admin password for a bearer token. Attempts are
// rate limited per client IP on top of the store's session cooldown.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !s.limiter.Allow("login:"+rateLimitKey(r), loginRateLimit, time.Minute) {
		s.logger.Warn("login rate limited", "ip", ip)
		WriteError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !s.credential.Validate(req.Password) {
		s.logger.Warn("login failed", "ip", ip)
		s.registry.RecordLogin("failure")
		s.audit(audit.Event{Action: audit.ActionLoginFailed, RemoteIP: ip})
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session, err := s.tokens.Issue()
	if err != nil {
		if errors.Is(err, auth.ErrCooldown) {
			s.logger.Warn("login during cooldown", "ip", ip)
			s.registry.RecordLogin("cooldown")
			WriteError(w, http.StatusTooManyRequests, "session creation is on cooldown")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("login succeeded", "ip", ip)
	s.registry.RecordLogin("success")
	s.audit(audit.Event{Action: audit.ActionLogin, Success: true, RemoteIP: ip})
	WriteJSON(w, http.StatusOK, loginResponse{AuthToken: session.Token})
}

// handleLogout revokes the presented token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tokens.Revoke(bearerToken(r))
	s.audit(audit.Event{Action: audit.ActionLogout, Success: true, RemoteIP: getClientIP(r)})
	WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// handleAuthStatus confirms the caller holds a valid token.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
