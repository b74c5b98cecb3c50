package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raakeshmj/vaultbox/internal/audit"
	"github.com/raakeshmj/vaultbox/internal/auth"
	"github.com/raakeshmj/vaultbox/internal/circuitbreaker"
	"github.com/raakeshmj/vaultbox/internal/config"
	"github.com/raakeshmj/vaultbox/internal/kv"
	"github.com/raakeshmj/vaultbox/internal/limiter"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/metrics"
	"github.com/raakeshmj/vaultbox/internal/middleware"
	"github.com/raakeshmj/vaultbox/internal/policy"
	"github.com/raakeshmj/vaultbox/internal/repository/kvrepo"
	"github.com/raakeshmj/vaultbox/internal/service"
)

type Server struct {
	cfg   *config.Config
	log   *logger.Logger
	redis *redis.Client
	store *kv.FailoverStore

	authSvc     *service.AuthService
	items       *service.ItemService
	memos       *service.MemoService
	settings    *service.SettingsService
	sessions    *auth.SessionManager
	csrf        *auth.CSRFManager
	lock        *auth.DynamicLock
	signer      *auth.SnapshotSigner
	limiter     middleware.RateLimiter
	engine      *policy.Engine
	metrics     *metrics.Collector
	auditLogger audit.Logger

	handler http.Handler
}

func New(cfg *config.Config, log *logger.Logger) *Server {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	// Storage: Redis behind a breaker, in-memory + signed cookie when
	// it is down.
	breaker := circuitbreaker.New(3, 2, 10*time.Second)
	store := kv.NewFailoverStore(kv.NewRedisStore(rdb), kv.NewMemoryStore(), breaker, log)

	sessions := auth.NewSessionManager(store, cfg.Auth.SessionTTL, log)
	csrf := auth.NewCSRFManager(store, cfg.Auth.CSRFTTL)
	guard := auth.NewGuard(store, cfg.Auth.MaxAttempts, cfg.Auth.Lockout, cfg.Auth.AttemptWindow, log)
	lock := auth.NewDynamicLock(cfg.Auth.LockInterval)
	signer := auth.NewSnapshotSigner(cfg.Auth.CookieSecret, cfg.Auth.SessionTTL)

	creds := kvrepo.NewCredentialRepo(store)
	settingsRepo := kvrepo.NewSettingsRepo(store, log)

	s := &Server{
		cfg:         cfg,
		log:         log,
		redis:       rdb,
		store:       store,
		authSvc:     service.NewAuthService(cfg.Auth, creds, settingsRepo, sessions, csrf, guard, log),
		items:       service.NewItemService(kvrepo.NewItemRepo(store, log), log),
		memos:       service.NewMemoService(kvrepo.NewMemoRepo(store, log), log),
		settings:    service.NewSettingsService(settingsRepo, log),
		sessions:    sessions,
		csrf:        csrf,
		lock:        lock,
		signer:      signer,
		limiter:     limiter.NewTokenBucketLimiter(rdb),
		engine:      policy.NewEngine(),
		metrics:     metrics.NewCollector(1000),
		auditLogger: audit.NewJSONLogger(os.Stdout),
	}
	s.engine.LoadPolicies(routePolicies())
	s.handler = s.routes()
	return s
}

// routePolicies is the security rule table, ordered specific to
// general. The catch-all "/" entry must stay last.
func routePolicies() []policy.Policy {
	return []policy.Policy{
		{ID: "login", Matcher: policy.Matcher{Method: http.MethodPost, Path: "/api/login"}, Rules: policy.Rules{LockGated: true, RateLimit: 2, Burst: 5}},
		{ID: "verify", Matcher: policy.Matcher{Method: http.MethodPost, Path: "/api/verify"}, Rules: policy.Rules{LockGated: true, RateLimit: 2, Burst: 5}},
		{ID: "logout", Matcher: policy.Matcher{Path: "/api/logout"}, Rules: policy.Rules{RateLimit: 10, Burst: 20}},
		{ID: "change-password", Matcher: policy.Matcher{Path: "/api/change-password"}, Rules: policy.Rules{AuthRequired: true, CSRFRequired: true, RateLimit: 5, Burst: 10}},
		{ID: "items", Matcher: policy.Matcher{Path: "/api/items"}, Rules: policy.Rules{AuthRequired: true, RateLimit: 20, Burst: 40}},
		{ID: "memos", Matcher: policy.Matcher{Path: "/api/memos"}, Rules: policy.Rules{AuthRequired: true, CSRFRequired: true, RateLimit: 20, Burst: 40}},
		{ID: "settings", Matcher: policy.Matcher{Path: "/api/settings"}, Rules: policy.Rules{RateLimit: 10, Burst: 20}},
		{ID: "dynamic-lock", Matcher: policy.Matcher{Path: "/api/dynamic-lock"}, Rules: policy.Rules{RateLimit: 10, Burst: 20}},
		{ID: "check-setup", Matcher: policy.Matcher{Path: "/api/check-setup"}, Rules: policy.Rules{RateLimit: 5, Burst: 10}},
		{ID: "metrics", Matcher: policy.Matcher{Path: "/api/metrics"}, Rules: policy.Rules{RateLimit: 10, Burst: 20}},
		{ID: "pages", Matcher: policy.Matcher{Path: "/"}, Rules: policy.Rules{RateLimit: 50, Burst: 100}},
	}
}

func (s *Server) Start() error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "port", s.cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.log.Info("starting shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
