package domain

import (
	"context"
	"time"
)

// Role is the closed set of application roles. Role checks must compare against
// these constants, never raw strings.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleOrganizer Role = "Organizer"
	RoleUser      Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleUser:
		return true
	}
	return false
}

// CanManageEvents reports whether the role may create and manage events.
func (r Role) CanManageEvents() bool {
	return r == RoleAdmin || r == RoleOrganizer
}

// ParseRole converts a string to a Role. Unknown values return RoleUser and false.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return RoleUser, false
}

// User represents an application account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, passwordHash, salt, firstName, lastName string, role Role, createdAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// UserSummary is the reduced user shape embedded in other payloads.
// swagger:model UserSummary
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Summary returns the reduced shape of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
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
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (userID string, role Role, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, search string, params PaginationParams) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
	SetRole(ctx context.Context, id string, role Role) (*User, error)
	SetActive(ctx context.Context, id string, active bool) (*User, error)
}

// AuthResult bundles a signed token with the authenticated user.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// AuthService defines sign-up, login, and account self-service.
type AuthService interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, userID string) (*User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// UserService defines user administration (admin role) and profile updates.
type UserService interface {
	List(ctx context.Context, search string, params PaginationParams, requesterRole Role) ([]*User, int, error)
	GetByID(ctx context.Context, id string, requesterID string, requesterRole Role) (*User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string, avatarURL *string) (*User, error)
	SetRole(ctx context.Context, id string, role Role, requesterRole Role) (*User, error)
	SetActive(ctx context.Context, id string, active bool, requesterRole Role) (*User, error)
}
