package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	Server   Server `envPrefix:"SERVER_"`
	Redis    Redis  `envPrefix:"REDIS_"`
	Auth     Auth
}

// Server contains HTTP listener parameters.
type Server struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Redis contains primary store connection parameters.
type Redis struct {
	Addr string `env:"ADDR" envDefault:"localhost:6379"`
}

// Auth contains the access credentials and the knobs of the
// session/anti-abuse layer. CUSTOM_PASSWORD keeps its historical name
// so existing deployments keep working.
type Auth struct {
	Password      string        `env:"CUSTOM_PASSWORD"`
	AccessUUID    string        `env:"ACCESS_UUID"`
	MultiAuthCode string        `env:"MULTI_AUTH_CODE"`
	CookieSecret  string        `env:"COOKIE_SECRET" envDefault:"devsecret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CSRFTTL       time.Duration `env:"CSRF_TTL" envDefault:"30m"`
	LockInterval  time.Duration `env:"DYNAMIC_LOCK_INTERVAL" envDefault:"10s"`
	MaxAttempts   int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	Lockout       time.Duration `env:"LOGIN_LOCKOUT" envDefault:"10m"`
	AttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"24h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
