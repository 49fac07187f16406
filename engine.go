package socialcore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/startcode/socialcore/internal/rate"
	"github.com/startcode/socialcore/jwt"
	"github.com/startcode/socialcore/password"
)

const (
	maxUserNameLength = 25
	// bcrypt truncates nothing: input past 72 bytes is an error, so the
	// cap is enforced here as a validation failure.
	maxCredentialLength = 72
)

// Engine is the identity core: login with throttling, token issuance and
// validation, registration, password reset, the friend graph, and
// directory search. All methods are safe for concurrent use after Build.
type Engine struct {
	config Config
	ready  bool

	users        UserProvider
	loginLimiter *rate.Limiter
	passwordHash *password.Bcrypt
	tokens       *jwt.Manager
	audit        *auditDispatcher
	metrics      *Metrics
}

// Login authenticates a regular user and returns a signed token. Lockout
// is checked before the credentials: a throttled client gets
// ErrLoginRateLimited even with a correct password. Failures count
// against the client address from the context; a successful login does
// not clear earlier failures, only the sliding window does.
func (e *Engine) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}
	clientIP := clientIPFromContext(ctx)

	locked, err := e.loginLimiter.IsLocked(ctx, clientIP)
	if err != nil {
		return nil, err
	}
	if locked {
		e.metrics.Inc(MetricLoginRateLimited)
		e.emitAudit(ctx, AuditLoginRateLimited, username, 0, clientIP, false, ErrLoginRateLimited)
		return nil, ErrLoginRateLimited
	}

	account, err := e.verifyPassword(ctx, username, pass)
	if err != nil {
		return nil, e.recordLoginFailure(ctx, username, clientIP, err)
	}

	return e.issueFor(ctx, account, clientIP)
}

// LoginAdmin authenticates an admin account. Admin logins bypass the
// throttle but every attempt still lands in the audit trail. A
// non-admin account is rejected as if the credentials were wrong.
func (e *Engine) LoginAdmin(ctx context.Context, username, pass string) (*LoginResult, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}
	clientIP := clientIPFromContext(ctx)

	account, err := e.verifyPassword(ctx, username, pass)
	if err == nil && account.Role != RoleAdmin {
		err = ErrInvalidCredentials
	}
	if err != nil {
		e.metrics.Inc(MetricAdminLoginFailure)
		e.emitAudit(ctx, AuditAdminLoginFailure, username, 0, clientIP, false, err)
		return nil, err
	}

	token, err := e.tokens.Issue(account.UserName, account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	e.metrics.Inc(MetricAdminLoginSuccess)
	e.emitAudit(ctx, AuditAdminLoginSuccess, account.UserName, account.ID, clientIP, true, nil)

	return &LoginResult{
		Token:    token,
		Username: account.UserName,
		UserID:   account.ID,
		Role:     account.Role,
	}, nil
}

func (e *Engine) verifyPassword(ctx context.Context, username, pass string) (*Account, error) {
	if username == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := e.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !e.passwordHash.Verify(pass, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// recordLoginFailure charges the client's throttle bucket. When the
// failure that just happened is the one that trips the threshold, the
// caller sees the rate-limit error instead of invalid credentials.
func (e *Engine) recordLoginFailure(ctx context.Context, username, clientIP string, cause error) error {
	if !errors.Is(cause, ErrInvalidCredentials) {
		return cause
	}

	e.metrics.Inc(MetricLoginFailure)

	err := e.loginLimiter.RecordFailure(ctx, clientIP, username)
	if errors.Is(err, rate.ErrRateLimited) {
		e.metrics.Inc(MetricLoginRateLimited)
		e.emitAudit(ctx, AuditLoginRateLimited, username, 0, clientIP, false, ErrLoginRateLimited)
		return ErrLoginRateLimited
	}
	if err != nil {
		return err
	}

	e.emitAudit(ctx, AuditLoginFailure, username, 0, clientIP, false, cause)
	return cause
}

func (e *Engine) issueFor(ctx context.Context, account *Account, clientIP string) (*LoginResult, error) {
	token, err := e.tokens.Issue(account.UserName, account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLoginSuccess, account.UserName, account.ID, clientIP, true, nil)

	return &LoginResult{
		Token:    token,
		Username: account.UserName,
		UserID:   account.ID,
		Role:     account.Role,
	}, nil
}

// Authenticate validates a bearer token and returns the caller identity.
func (e *Engine) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metrics.Inc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}

	e.metrics.Inc(MetricTokenValidated)
	return &Principal{
		Name: claims.Username,
		ID:   claims.UsernameID,
		Role: claims.Role,
	}, nil
}

// ResetPassword replaces an account's password after the secret answer
// matches. The reset path is not throttled, and an unknown username is
// reported exactly like a wrong answer: the route is unauthenticated, so
// it must not confirm which accounts exist.
func (e *Engine) ResetPassword(ctx context.Context, username, secretAnswer, newPassword string) error {
	if e == nil || !e.ready {
		return ErrEngineNotReady
	}
	if username == "" || secretAnswer == "" || newPassword == "" {
		return ErrInvalidInput
	}
	if len(newPassword) > maxCredentialLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxCredentialLength)
	}
	clientIP := clientIPFromContext(ctx)

	account, err := e.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metrics.Inc(MetricPasswordResetFailure)
			e.emitAudit(ctx, AuditPasswordReset, username, 0, clientIP, false, ErrBadSecretAnswer)
			return ErrBadSecretAnswer
		}
		return err
	}

	if !e.passwordHash.Verify(secretAnswer, account.SecretAnswerHash) {
		e.metrics.Inc(MetricPasswordResetFailure)
		e.emitAudit(ctx, AuditPasswordReset, username, account.ID, clientIP, false, ErrBadSecretAnswer)
		return ErrBadSecretAnswer
	}

	digest, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = digest

	if err := e.users.UpdateAccounts(ctx, account); err != nil {
		return err
	}

	e.metrics.Inc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, AuditPasswordReset, username, account.ID, clientIP, true, nil)
	return nil
}

// Register creates a user account. Both the password and the secret
// answer are hashed before the record reaches the provider, and a blank
// profile picture gets a generated avatar URL.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if e == nil || !e.ready {
		return nil, ErrEngineNotReady
	}
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := e.users.GetUserByUsername(ctx, req.UserName); err == nil {
		e.metrics.Inc(MetricRegisterDuplicate)
		return nil, ErrAccountExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordDigest, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	answerDigest, err := e.passwordHash.Hash(req.SecretAnswer)
	if err != nil {
		return nil, err
	}

	picture := req.ProfilePicture
	if picture == "" {
		picture = "https://robohash.org/" + uuid.NewString()
	}

	account, err := e.users.CreateUser(ctx, &Account{
		FullName:         strings.TrimSpace(req.FullName),
		UserName:         req.UserName,
		PasswordHash:     passwordDigest,
		SecretAnswerHash: answerDigest,
		Role:             RoleUser,
		ProfilePicture:   picture,
	})
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricRegisterSuccess)
	e.emitAudit(ctx, AuditRegister, account.UserName, account.ID, clientIPFromContext(ctx), true, nil)
	return account, nil
}

func validateRegistration(req RegisterRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return fmt.Errorf("%w: full name required", ErrInvalidInput)
	}
	if req.UserName == "" || len(req.UserName) > maxUserNameLength {
		return fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, maxUserNameLength)
	}
	if req.Password == "" || len(req.Password) > maxCredentialLength {
		return fmt.Errorf("%w: password must be 1-%d bytes", ErrInvalidInput, maxCredentialLength)
	}
	if req.SecretAnswer == "" || len(req.SecretAnswer) > maxCredentialLength {
		return fmt.Errorf("%w: secret answer must be 1-%d bytes", ErrInvalidInput, maxCredentialLength)
	}
	return nil
}

func (e *Engine) emitAudit(ctx context.Context, eventType, username string, userID int, ip string, success bool, cause error) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Username:  username,
		UserID:    userID,
		IP:        ip,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	e.audit.Emit(ctx, event)
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under DropIfFull.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}
