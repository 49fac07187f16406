package middleware

import (
	"net/http"

	socialcore "github.com/startcode/socialcore"
)

// TokenHeader is the request header carrying the bearer token. Clients
// send the raw compact JWT, no scheme prefix.
const TokenHeader = "x-access-token"

// ClientIPHeader carries the caller's address as reported by the client
// or an upstream proxy. Absent or empty, the engine throttles the
// request under its shared unknown bucket.
const ClientIPHeader = "ip_address"

// Guard validates the token header against the engine and injects the
// resulting principal into the request context. Requests without a valid
// token are rejected with 401 before the handler runs.
func Guard(engine *socialcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := r.Header.Get(TokenHeader)
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := socialcore.WithPrincipal(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole wraps Guard and additionally rejects principals whose role
// does not match. Role mismatches read as 401, not 403, so probing for
// admin routes reveals nothing.
func RequireRole(engine *socialcore.Engine, role string) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := socialcore.PrincipalFromContext(r.Context())
			if !ok || principal.Role != role {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// ClientIP copies the address header into the request context so the
// engine can key its login throttle. Applied to unauthenticated routes
// such as login.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := socialcore.WithClientIP(r.Context(), r.Header.Get(ClientIPHeader))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
