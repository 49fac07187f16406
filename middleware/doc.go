// Package middleware adapts HTTP requests to socialcore.Engine calls:
// token validation from the x-access-token header, role gating, and
// client address propagation for the login throttle.
//
// The package translates HTTP semantics only. Every authentication and
// authorization decision is delegated to the engine.
package middleware
