// Package jwt implements the stateless token service: HS256-signed,
// time-bounded bearer tokens carrying the subject's login name, numeric
// id, and role. Tokens are never stored server-side; logout is a
// client-side discard.
package jwt
