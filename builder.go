package socialcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/startcode/socialcore/internal/rate"
	"github.com/startcode/socialcore/jwt"
	"github.com/startcode/socialcore/password"
)

// Builder assembles an Engine. Configure, then call Build exactly once;
// construction is allocation-only and performs no I/O.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. Zero fields are filled with
// defaults during Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the login throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider plugs in the persistence layer.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the destination for audit events. Unset with audit
// enabled means events are discarded.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the subsystems, and returns a
// ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	cfg.applyDefaults()

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		users:  b.userProvider,
	}

	engine.loginLimiter = rate.New(b.redis, rate.Config{
		MaxFailures: cfg.Throttle.MaxFailures,
		Window:      cfg.Throttle.Window,
	})
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewBcrypt(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	jm, err := jwt.NewManager(jwt.Config{
		Secret:   cfg.JWT.Secret,
		TokenTTL: cfg.JWT.TokenTTL,
		Issuer:   cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}
	engine.tokens = jm

	engine.ready = true
	b.built = true

	return engine, nil
}
