package service

import (
	"context"
	"strings"
	"time"

	"github.com/raakeshmj/vaultbox/internal/auth"
	"github.com/raakeshmj/vaultbox/internal/config"
	"github.com/raakeshmj/vaultbox/internal/logger"
	"github.com/raakeshmj/vaultbox/internal/repository"
)

// AuthService orchestrates login, verify, logout, first-run setup and
// password changes over the shared session/guard/CSRF primitives.
type AuthService struct {
	cfg      config.Auth
	creds    repository.CredentialRepository
	settings repository.SettingsRepository
	sessions *auth.SessionManager
	csrf     *auth.CSRFManager
	guard    *auth.Guard
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(
	cfg config.Auth,
	creds repository.CredentialRepository,
	settings repository.SettingsRepository,
	sessions *auth.SessionManager,
	csrf *auth.CSRFManager,
	guard *auth.Guard,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		creds:    creds,
		settings: settings,
		sessions: sessions,
		csrf:     csrf,
		guard:    guard,
		log:      log,
		now:      time.Now,
	}
}

// LoginResult is the outcome of a login or verify call.
type LoginResult struct {
	OK               bool
	Locked           bool
	RetryAfter       time.Duration
	Remaining        int
	RequireMultiAuth bool
	Token            string // opaque session token for the cookie
	SessionID        string // returned to the client, binds CSRF
	CSRFToken        string
}

// Login authenticates with the password alone. The password check is
// deliberately dual-mode: the environment-provided plaintext is tried
// first (constant-time), then the stored hash. Guard bookkeeping
// wraps the whole thing.
func (s *AuthService) Login(ctx context.Context, ip, userAgent, password string) (*LoginResult, error) {
	if st := s.guard.Check(ctx, ip); !st.Allowed {
		return &LoginResult{Locked: true, RetryAfter: st.RetryAfter}, nil
	}

	ok, err := s.checkPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.fail(ctx, ip), nil
	}

	s.guard.Reset(ctx, ip)
	return s.establish(ctx, ip, userAgent)
}

// Verify authenticates with UUID + password, plus the optional
// second-factor code when one is configured.
func (s *AuthService) Verify(ctx context.Context, ip, userAgent, accessUUID, password, multiAuthCode string) (*LoginResult, error) {
	if st := s.guard.Check(ctx, ip); !st.Allowed {
		return &LoginResult{Locked: true, RetryAfter: st.RetryAfter}, nil
	}

	passOK, err := s.checkPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPlaintext(accessUUID, s.cfg.AccessUUID) || !passOK {
		return s.fail(ctx, ip), nil
	}

	if s.cfg.MultiAuthCode != "" {
		if strings.TrimSpace(multiAuthCode) == "" {
			// Not a failed attempt, just a prompt for the second step.
			return &LoginResult{RequireMultiAuth: true}, nil
		}
		if !auth.VerifyPlaintext(multiAuthCode, s.cfg.MultiAuthCode) {
			return s.fail(ctx, ip), nil
		}
	}

	s.guard.Reset(ctx, ip)
	return s.establish(ctx, ip, userAgent)
}

// Logout destroys the session. It always succeeds from the client's
// point of view; a second call with the same token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Destroy(ctx, token)
}

// SetupResult reports first-run state.
type SetupResult struct {
	FirstTime bool
	Password  string // generated initial password, first run only
}

// CheckSetup generates and stores an initial password on the very
// first run, mirroring it into the settings blob for the UI to show
// once.
func (s *AuthService) CheckSetup(ctx context.Context) (*SetupResult, error) {
	hash, err := s.creds.PasswordHash(ctx)
	if err != nil {
		return nil, err
	}
	if hash != "" {
		return &SetupResult{}, nil
	}

	password, err := auth.GenerateInitialPassword()
	if err != nil {
		return nil, err
	}
	newHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.creds.SetPasswordHash(ctx, newHash); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err == nil {
		settings["currentPassword"] = password
		settings["deployTime"] = s.now().UTC().Format(time.RFC3339)
		err = s.settings.Put(ctx, settings)
	}
	if err != nil {
		// The password is already set; losing the mirror is not fatal.
		s.log.Error("initial settings write failed", "error", err)
	}

	return &SetupResult{FirstTime: true, Password: password}, nil
}

// ChangePassword verifies the current password (same dual-mode check
// as login) and stores a new hash, mirroring the plaintext into the
// settings blob for the UI's account page.
func (s *AuthService) ChangePassword(ctx context.Context, current, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return invalid("new password is required")
	}

	ok, err := s.checkPassword(ctx, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.creds.SetPasswordHash(ctx, hash); err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err == nil {
		settings["currentPassword"] = newPassword
		err = s.settings.Put(ctx, settings)
	}
	if err != nil {
		s.log.Error("settings password mirror failed", "error", err)
	}
	return nil
}

func (s *AuthService) checkPassword(ctx context.Context, password string) (bool, error) {
	if auth.VerifyPlaintext(password, s.cfg.Password) {
		return true, nil
	}
	hash, err := s.creds.PasswordHash(ctx)
	if err != nil {
		return false, err
	}
	return auth.VerifyPassword(password, hash), nil
}

func (s *AuthService) fail(ctx context.Context, ip string) *LoginResult {
	st := s.guard.RecordFailure(ctx, ip)
	if !st.Allowed {
		return &LoginResult{Locked: true, RetryAfter: st.RetryAfter}
	}
	return &LoginResult{Remaining: st.Remaining}
}

func (s *AuthService) establish(ctx context.Context, ip, userAgent string) (*LoginResult, error) {
	token, err := s.sessions.Create(ctx, ip, userAgent)
	if err != nil {
		return nil, err
	}
	csrfToken, err := s.csrf.Issue(ctx, token)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		OK:        true,
		Token:     token,
		SessionID: token,
		CSRFToken: csrfToken,
	}, nil
}
