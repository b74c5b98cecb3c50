package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raakeshmj/vaultbox/internal/service"
)

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := s.memos.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"memos":   memos,
	})
}

func (s *Server) handleGetMemo(w http.ResponseWriter, r *http.Request) {
	memo, err := s.memos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"memo":    memo,
	})
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var in service.MemoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	memo, err := s.memos.Create(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"memo":    memo,
	})
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	var in service.MemoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	memo, err := s.memos.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"memo":    memo,
	})
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := s.memos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

type importMemosRequest struct {
	Memos []service.MemoInput `json:"memos"`
}

func (s *Server) handleImportMemos(w http.ResponseWriter, r *http.Request) {
	var req importMemosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	count, err := s.memos.Import(r.Context(), req.Memos)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imported": count,
	})
}
