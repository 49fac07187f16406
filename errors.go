package socialcore

import (
	"errors"

	"github.com/startcode/socialcore/internal/rate"
	"github.com/startcode/socialcore/jwt"
)

var (
	// ErrInvalidCredentials is returned when a login name is unknown or the
	// password does not match. Callers cannot distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is returned when a bearer token fails validation for
	// any reason.
	ErrTokenInvalid = jwt.ErrTokenInvalid
	// ErrBadSecretAnswer is returned when a password reset carries the
	// wrong secret answer.
	ErrBadSecretAnswer = errors.New("secret answer does not match")

	// ErrUserNotFound is returned when an account lookup by name or id
	// finds nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrFriendRequestNotFound is returned when a pending request to
	// remove does not exist.
	ErrFriendRequestNotFound = errors.New("friend request not found")
	// ErrFriendNotFound is returned when a friendship to remove does not
	// exist.
	ErrFriendNotFound = errors.New("friend not found")
	// ErrNoFriends is returned when an account's friend list is empty.
	ErrNoFriends = errors.New("no friends")
	// ErrNoPendingRequests is returned when an account has no pending
	// friend requests.
	ErrNoPendingRequests = errors.New("no pending friend requests")
	// ErrNoSearchMatches is returned when a directory search yields no
	// visible accounts.
	ErrNoSearchMatches = errors.New("no matching users")

	// ErrLoginRateLimited is returned when a client identifier has hit the
	// failed-login threshold and must wait for the window to slide.
	ErrLoginRateLimited = errors.New("login rate limited")

	// ErrSelfFriendRequest is returned when an account targets itself.
	ErrSelfFriendRequest = errors.New("cannot friend yourself")
	// ErrFriendRequestExists is returned when a pending request between
	// the same pair already exists.
	ErrFriendRequestExists = errors.New("friend request already pending")
	// ErrFriendRequestInvalid is returned when accepting a request that
	// was never sent.
	ErrFriendRequestInvalid = errors.New("no such friend request to accept")
	// ErrAlreadyFriends is returned when a request targets an existing
	// friend.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrInvalidInput is returned when a request is structurally unusable:
	// missing fields or out-of-range values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAccountExists is returned when registration reuses a login name.
	ErrAccountExists = errors.New("account already exists")

	// ErrThrottleUnavailable is returned when the login throttle backend
	// cannot be reached.
	ErrThrottleUnavailable = rate.ErrThrottleUnavailable
	// ErrEngineNotReady is returned when an Engine method is called before
	// Build completed.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ErrorClass groups the sentinel errors into the categories a transport
// boundary maps to status codes.
type ErrorClass int

const (
	// ClassInternal covers backend failures and unclassified errors.
	ClassInternal ErrorClass = iota
	// ClassAuthentication covers rejected credentials and tokens.
	ClassAuthentication
	// ClassNotFound covers missing accounts, relationships, and empty
	// result sets.
	ClassNotFound
	// ClassRateLimit covers throttled logins.
	ClassRateLimit
	// ClassValidation covers structurally invalid requests.
	ClassValidation
)

// Classify maps an error to its ErrorClass. Wrapped errors are matched
// with errors.Is, so callers may decorate sentinels freely.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassInternal
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrBadSecretAnswer):
		return ClassAuthentication
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrFriendRequestNotFound),
		errors.Is(err, ErrFriendNotFound),
		errors.Is(err, ErrNoFriends),
		errors.Is(err, ErrNoPendingRequests),
		errors.Is(err, ErrNoSearchMatches):
		return ClassNotFound
	case errors.Is(err, ErrLoginRateLimited):
		return ClassRateLimit
	case errors.Is(err, ErrSelfFriendRequest),
		errors.Is(err, ErrFriendRequestExists),
		errors.Is(err, ErrFriendRequestInvalid),
		errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrAccountExists):
		return ClassValidation
	default:
		return ClassInternal
	}
}
