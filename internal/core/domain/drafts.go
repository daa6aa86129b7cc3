package domain

// LoginDraft holds the credentials typed into the login form.
type LoginDraft struct {
	Email    string
	Password string
}

// RegisterDraft holds the registration form. Role defaults to customer.
type RegisterDraft struct {
	Username string
	Email    string
	Password string
	Phone    string
	Role     Role
}

// NewRegisterDraft returns an empty registration draft with the default role.
func NewRegisterDraft() RegisterDraft {
	return RegisterDraft{Role: RoleCustomer}
}

// ProfileDraft is the editable copy of an identity plus the write-only
// new-password field. An empty NewPassword means "keep the current password".
type ProfileDraft struct {
	Username    string
	Email       string
	Phone       string
	NewPassword string
}

// DraftFrom starts a profile draft from an identity.
func DraftFrom(id Identity) ProfileDraft {
	return ProfileDraft{
		Username: id.Username,
		Email:    id.Email,
		Phone:    id.Phone,
	}
}
