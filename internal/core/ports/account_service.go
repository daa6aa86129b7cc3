package ports

import (
	"context"

	"github.com/authapp/portal/internal/core/domain"
)

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone,omitempty"`
	Role     domain.Role `json:"role"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of PUT /users/profile. Username, email and phone
// are always sent; Password is sent only when set.
type ProfileUpdate struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Password *string `json:"password,omitempty"`
}

// AccountService is the remote system owning credentials, identities and
// roles. Every call is made on behalf of the visitor whose upstream cookies
// travel with ctx.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, in LoginInput) (*domain.Identity, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*domain.Identity, error)
	ListUsers(ctx context.Context) (domain.IdentityCollection, error)
	UpdateRole(ctx context.Context, id domain.ID, role domain.Role) error
}
