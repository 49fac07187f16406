package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 30 * time.Minute

// ErrTokenInvalid covers every validation failure: bad signature,
// malformed token, wrong algorithm, or an expiry at or before now.
// Callers get no finer-grained reason by design.
var ErrTokenInvalid = errors.New("invalid token")

// Config holds the process-wide signing parameters. The secret is shared
// by every issuer and validator in the process; it is never user-supplied.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

// Claims is the wire claim set. The subject duplicates the username claim
// and the issuer rides as a custom claim rather than the registered `iss`,
// matching the deployed token layout consumed by existing clients.
type Claims struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	UsernameID int    `json:"usernameID"`
	Issuer     string `json:"issuer"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates the configuration and returns a token manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a signing secret")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.TokenTTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}

	return &Manager{config: cfg, now: time.Now}, nil
}

// Issue signs a token for the given subject. Expiry is issued-at plus the
// configured TTL.
func (m *Manager) Issue(username string, usernameID int, role string) (string, error) {
	now := m.now()

	claims := Claims{
		Username:   username,
		Role:       role,
		UsernameID: usernameID,
		Issuer:     m.config.Issuer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Parse verifies the signature and expiry and returns the claim set.
// Any failure maps to ErrTokenInvalid.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
