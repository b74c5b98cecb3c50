package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raakeshmj/vaultbox/internal/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/verify", s.handleVerify)
		r.Post("/logout", s.handleLogout)
		r.Get("/check-setup", s.handleCheckSetup)
		r.Post("/change-password", s.handleChangePassword)
		r.Get("/dynamic-lock", s.handleDynamicLock)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleCreateItem)
		r.Delete("/items/{id}", s.handleDeleteItem)

		r.Get("/memos", s.handleListMemos)
		r.Post("/memos", s.handleCreateMemo)
		r.Get("/memos/{id}", s.handleGetMemo)
		r.Put("/memos/{id}", s.handleUpdateMemo)
		r.Delete("/memos/{id}", s.handleDeleteMemo)
		r.Post("/memos/import", s.handleImportMemos)

		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleSaveSettings)

		r.Get("/metrics", s.handleMetrics)
	})

	r.Get("/sw.js", s.handleServiceWorker)
	r.Get("/", s.handleIndex)

	// Outermost first. Policy resolution must precede everything that
	// reads rules from the context; auth must precede the lock gate and
	// CSRF so an authenticated session can bypass the former.
	return middleware.Chain(r,
		middleware.Metrics(s.metrics),
		middleware.Audit(s.auditLogger),
		middleware.SecureHeaders(),
		middleware.PolicyEnforcer(s.engine),
		middleware.RateLimit(s.limiter, s.log),
		s.fallbackSnapshot,
		middleware.SessionAuth(s.sessions),
		middleware.DynamicLockGate(s.lock),
		middleware.CSRFProtect(s.csrf),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.redis.Ping(r.Context()).Err(); err != nil {
		status := map[string]string{"status": "degraded", "store": "fallback"}
		respondJSON(w, http.StatusOK, status)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": "primary"})
}
