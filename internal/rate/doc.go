// Package rate implements the failed-login throttle: a sliding-window
// counter over Redis sorted sets, keyed per client identifier.
//
// Every failed login adds a member scored with the failure time under
// "flt:<client>". Counting prunes members older than the window first, so
// the count always reflects the trailing window rather than a fixed
// bucket. When the in-window count reaches the configured threshold the
// client is locked out until enough old failures slide past the window
// edge.
//
// Clients without an identifier are folded into the shared "UNKNOWN"
// bucket.
package rate
