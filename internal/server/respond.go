package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raakeshmj/vaultbox/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// respondServiceError maps service-layer errors onto the HTTP
// taxonomy. Unknown errors become a generic 500; the detail stays in
// the server log only.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err):
		respondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.Is(err, service.ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, "AUTH_FAILED", "current password incorrect")
	default:
		s.log.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "server error")
	}
}
