package socialcore

import "context"

// Roles known to the engine. Admin accounts can log in through the admin
// path and are hidden from directory search.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the canonical user record. PasswordHash and SecretAnswerHash
// are bcrypt digests; the engine never sees or stores plaintext beyond the
// duration of a call.
type Account struct {
	ID               int
	FullName         string
	UserName         string
	PasswordHash     string
	SecretAnswerHash string
	Role             string
	ProfilePicture   string

	FriendRequests []FriendRequest
	Friends        []Friend
}

// FriendRequest is a pending, directed request stored on the recipient's
// account. It carries a denormalized snapshot of the requester for
// display.
type FriendRequest struct {
	RequesterID    int
	FullName       string
	ProfilePicture string
}

// Friend is one side of a confirmed, symmetric friendship. Both accounts
// hold a mirrored entry.
type Friend struct {
	ID             int
	FullName       string
	ProfilePicture string
}

// AccountSummary is the directory-search projection of an account.
type AccountSummary struct {
	ID             int
	FullName       string
	UserName       string
	ProfilePicture string
}

// Principal identifies an authenticated caller, decoded from a bearer
// token.
type Principal struct {
	Name string
	ID   int
	Role string
}

// LoginResult carries the signed token plus the subject identity echoed
// back to the client.
type LoginResult struct {
	Token    string
	Username string
	UserID   int
	Role     string
}

// RegisterRequest is the input to Engine.Register. SecretAnswer feeds the
// password reset flow and is hashed like a password.
type RegisterRequest struct {
	FullName       string
	UserName       string
	Password       string
	SecretAnswer   string
	ProfilePicture string
}

// UserProvider is the persistence boundary the host application plugs in.
// Implementations return ErrUserNotFound for missing records and must
// make UpdateAccounts atomic: either every passed account is persisted or
// none is. The engine relies on that for mirrored friendship writes.
//
// Get and Search methods must return independent copies, not pointers
// into shared state: the engine mutates returned accounts in place and
// only commits them through UpdateAccounts, so an aliased record would
// leak partial mutations when that call fails.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*Account, error)
	GetUserByID(ctx context.Context, id int) (*Account, error)
	SearchByFullName(ctx context.Context, query string) ([]Account, error)
	CreateUser(ctx context.Context, account *Account) (*Account, error)
	UpdateAccounts(ctx context.Context, accounts ...*Account) error
}
