package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UnknownClient is the shared throttle bucket for requests that arrive
// without a usable client identifier. Clients that omit the header share
// one budget instead of escaping the limiter.
const UnknownClient = "UNKNOWN"

// Config holds the lockout policy.
type Config struct {
	MaxFailures int
	Window      time.Duration
}

// Limiter tracks failed-login attempts per client identifier inside a
// rolling window, backed by one Redis sorted set per client. Entries are
// scored by failure time and pruned lazily, so a failure that ages out of
// the window stops counting toward the threshold without an explicit
// unlock step.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
	now    func() time.Time
}

// New creates a failed-login limiter backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
		now:    time.Now,
	}
}

func failureKey(clientID string) string {
	return "flt:" + clientID
}

func normalizeClient(clientID string) string {
	if clientID == "" {
		return UnknownClient
	}
	return clientID
}

// RecordFailure appends a timestamped failure for the client and returns
// ErrRateLimited when the in-window failure count reaches the threshold.
// Prune, append, and count run in one MULTI/EXEC pipeline so two
// concurrent failures from the same client cannot both observe a
// below-threshold count.
func (l *Limiter) RecordFailure(ctx context.Context, clientID, username string) error {
	key := failureKey(normalizeClient(clientID))
	now := l.now()
	cutoff := now.Add(-l.config.Window)

	// Member uniqueness matters: two failures for the same username in the
	// same millisecond must count twice.
	member := uuid.NewString() + ":" + username

	var count *redis.IntCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", formatScore(cutoff))
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: member,
		})
		count = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, l.config.Window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}

	if count.Val() >= int64(l.config.MaxFailures) {
		return ErrRateLimited
	}

	return nil
}

// IsLocked reports whether the client still holds at least the threshold
// number of failures inside the trailing window. Expired failures are
// pruned before counting.
func (l *Limiter) IsLocked(ctx context.Context, clientID string) (bool, error) {
	key := failureKey(normalizeClient(clientID))
	cutoff := l.now().Add(-l.config.Window)

	var count *redis.IntCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", formatScore(cutoff))
		count = pipe.ZCard(ctx, key)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}

	return count.Val() >= int64(l.config.MaxFailures), nil
}

// FailureCount returns the number of in-window failures for a client.
// Missing keys count as zero.
func (l *Limiter) FailureCount(ctx context.Context, clientID string) (int, error) {
	cutoff := formatScore(l.now().Add(-l.config.Window))

	count, err := l.redis.ZCount(ctx, failureKey(normalizeClient(clientID)), "("+cutoff, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}

	return int(count), nil
}

func formatScore(t time.Time) string {
	return fmt.Sprintf("%d", t.UnixMilli())
}
