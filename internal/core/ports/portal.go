package ports

import (
	"context"

	"github.com/authapp/portal/internal/core/domain"
)

// CredentialForms backs the login, registration and logout forms.
type CredentialForms interface {
	Login(ctx context.Context, sessionID string, draft domain.LoginDraft) (domain.SessionState, error)
	Register(ctx context.Context, sessionID string, draft domain.RegisterDraft) error
	Logout(ctx context.Context, sessionID string, actor domain.ID) error
}

// ProfileEditor backs the profile page.
type ProfileEditor interface {
	Load(ctx context.Context) (domain.Identity, error)
	Submit(ctx context.Context, sessionID string, actor domain.ID, draft domain.ProfileDraft) (domain.Identity, error)
}

// RoleAdministration backs the administrators' user table.
type RoleAdministration interface {
	Load(ctx context.Context) (domain.IdentityCollection, error)
	RowPending(sessionID string, target domain.ID) bool
	ChangeRole(
		ctx context.Context,
		sessionID string,
		actor domain.Identity,
		users domain.IdentityCollection,
		target domain.ID,
		role domain.Role,
	) (domain.IdentityCollection, error)
}
