package socialcore

import (
	"errors"
	"time"
)

// DefaultIssuer is stamped into every token's issuer claim unless the
// configuration overrides it.
const DefaultIssuer = "semesterstartcode-dat3"

// JWTConfig holds token signing parameters. Secret is mandatory.
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

// ThrottleConfig holds the failed-login lockout policy: MaxFailures
// inside the trailing Window locks the client out.
type ThrottleConfig struct {
	MaxFailures int
	Window      time.Duration
}

// PasswordConfig holds bcrypt parameters. Zero Cost selects the library
// default.
type PasswordConfig struct {
	Cost int
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// Config is the full engine configuration. Zero values fall back to the
// defaults from defaultConfig.
type Config struct {
	JWT      JWTConfig
	Throttle ThrottleConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TokenTTL: 30 * time.Minute,
			Issuer:   DefaultIssuer,
		},
		Throttle: ThrottleConfig{
			MaxFailures: 5,
			Window:      10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate rejects configurations the engine cannot run with. Called by
// Builder.Build after defaults are applied.
func (c Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT secret required")
	}
	if c.JWT.TokenTTL < 0 {
		return errors.New("JWT TokenTTL must not be negative")
	}
	if c.Throttle.MaxFailures <= 0 {
		return errors.New("Throttle MaxFailures must be positive")
	}
	if c.Throttle.Window <= 0 {
		return errors.New("Throttle Window must be positive")
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := defaultConfig()

	if c.JWT.TokenTTL == 0 {
		c.JWT.TokenTTL = def.JWT.TokenTTL
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = def.JWT.Issuer
	}
	if c.Throttle.MaxFailures == 0 {
		c.Throttle.MaxFailures = def.Throttle.MaxFailures
	}
	if c.Throttle.Window == 0 {
		c.Throttle.Window = def.Throttle.Window
	}
	if c.Audit.Enabled && c.Audit.BufferSize == 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}
}
