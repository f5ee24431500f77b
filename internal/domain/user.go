package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user. SessionToken holds the single active
// session (nil when signed out); ConnectionID points at the user's live push
// connection (nil when disconnected). Both are mutated only at sign-in/out
// and connect/disconnect.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	SessionToken *string   `json:"-"`
	ConnectionID *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(name, email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateSessionToken sets or clears (nil) the user's active session token.
	UpdateSessionToken(ctx context.Context, userID string, token *string) error
	// UpdateConnectionID sets or clears (nil) the user's live connection id.
	UpdateConnectionID(ctx context.Context, userID string, connectionID *string) error
}

// UserService defines the business logic for registration and sessions.
type UserService interface {
	SignUp(ctx context.Context, name, email, password string) (token string, user *User, err error)
	SignIn(ctx context.Context, email, password string) (token string, user *User, err error)
	SignOut(ctx context.Context, userID string) error
	GetByID(ctx context.Context, id string) (*User, error)
}
