package server

import (
	"encoding/json"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/middleware"
	"github.com/raakeshmj/vaultbox/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type verifyRequest struct {
	UUID          string `json:"uuid"`
	Password      string `json:"password"`
	MultiAuthCode string `json:"multiAuthCode"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	res, err := s.authSvc.Login(r.Context(), middleware.ClientIP(r), r.UserAgent(), req.Password)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondLogin(w, res)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	res, err := s.authSvc.Verify(r.Context(), middleware.ClientIP(r), r.UserAgent(), req.UUID, req.Password, req.MultiAuthCode)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if res.RequireMultiAuth {
		respondJSON(w, http.StatusOK, map[string]any{
			"success":          false,
			"requireMultiAuth": true,
		})
		return
	}
	s.respondLogin(w, res)
}

// respondLogin maps a login/verify outcome onto the wire. Lockouts and
// generic failures look alike apart from the status code and retry
// hint; success sets the session cookie.
func (s *Server) respondLogin(w http.ResponseWriter, res *service.LoginResult) {
	switch {
	case res.Locked:
		respondJSON(w, http.StatusForbidden, map[string]any{
			"success":    false,
			"error":      "too many failed attempts",
			"code":       "LOCKED_OUT",
			"retryAfter": int(res.RetryAfter.Seconds()),
		})
	case !res.OK:
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"success":           false,
			"error":             "invalid credentials",
			"code":              "AUTH_FAILED",
			"remainingAttempts": res.Remaining,
		})
	default:
		s.setSessionCookie(w, res.Token, int(s.cfg.Auth.SessionTTL.Seconds()))
		respondJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"sessionId": res.SessionID,
			"csrfToken": res.CSRFToken,
		})
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		s.authSvc.Logout(r.Context(), cookie.Value)
	}
	s.setSessionCookie(w, "", -1)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCheckSetup(w http.ResponseWriter, r *http.Request) {
	res, err := s.authSvc.CheckSetup(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	body := map[string]any{
		"success":     true,
		"isFirstTime": res.FirstTime,
	}
	if res.FirstTime {
		body["password"] = res.Password
	}
	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if err := s.authSvc.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDynamicLock(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.lock.Current())
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.GetStats())
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}
