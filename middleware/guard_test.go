package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	socialcore "github.com/startcode/socialcore"
)

type staticProvider struct {
	accounts map[string]*socialcore.Account
}

func (p *staticProvider) GetUserByUsername(_ context.Context, username string) (*socialcore.Account, error) {
	if a, ok := p.accounts[username]; ok {
		return a, nil
	}
	return nil, socialcore.ErrUserNotFound
}

func (p *staticProvider) GetUserByID(_ context.Context, id int) (*socialcore.Account, error) {
	for _, a := range p.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, socialcore.ErrUserNotFound
}

func (p *staticProvider) SearchByFullName(context.Context, string) ([]socialcore.Account, error) {
	return nil, nil
}

func (p *staticProvider) CreateUser(_ context.Context, a *socialcore.Account) (*socialcore.Account, error) {
	return a, nil
}

func (p *staticProvider) UpdateAccounts(context.Context, ...*socialcore.Account) error {
	return nil
}

func newTestEngine(t *testing.T) *socialcore.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	digest, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	provider := &staticProvider{accounts: map[string]*socialcore.Account{
		"kim": {
			ID:           7,
			FullName:     "Kim Larsen",
			UserName:     "kim",
			PasswordHash: string(digest),
			Role:         socialcore.RoleUser,
		},
	}}

	engine, err := socialcore.New().
		WithConfig(socialcore.Config{
			JWT: socialcore.JWTConfig{Secret: []byte("middleware-test-secret")},
		}).
		WithRedis(client).
		WithUserProvider(provider).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func loginToken(t *testing.T, engine *socialcore.Engine) string {
	t.Helper()

	res, err := engine.Login(context.Background(), "kim", "pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return res.Token
}

func TestGuardRejectsMissingToken(t *testing.T) {
	engine := newTestEngine(t)

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/friend/friends", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	engine := newTestEngine(t)

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/friend/friends", nil)
	req.Header.Set(TokenHeader, "not.a.token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuardInjectsPrincipal(t *testing.T) {
	engine := newTestEngine(t)
	token := loginToken(t, engine)

	var principal socialcore.Principal
	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := socialcore.PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in context")
		}
		principal = p
	}))

	req := httptest.NewRequest(http.MethodGet, "/friend/friends", nil)
	req.Header.Set(TokenHeader, token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if principal.Name != "kim" || principal.ID != 7 || principal.Role != socialcore.RoleUser {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	engine := newTestEngine(t)
	token := loginToken(t, engine)

	handler := RequireRole(engine, socialcore.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a non-admin principal")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(TokenHeader, token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestClientIPPropagatesHeader(t *testing.T) {
	handler := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set(ClientIPHeader, "203.0.113.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
