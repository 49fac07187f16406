// Package socialcore is the identity and friendship core of a small
// social network: bcrypt credential storage, HS256 bearer tokens, a
// Redis-backed sliding-window throttle on failed logins, a mirrored
// friend graph, and admin-excluding directory search.
//
// The package is the public surface. Hosts construct an [Engine] through
// [Builder], supplying a Redis client, a [UserProvider] for persistence,
// and optionally an [AuditSink]. Engine methods are safe to call from
// multiple goroutines after [Builder.Build].
//
// Persistence stays behind the [UserProvider] interface; the engine
// never sees a database handle. The one hard requirement on providers is
// that UpdateAccounts is atomic across the passed records, which the
// friend graph relies on to keep both sides of a friendship in step.
package socialcore
