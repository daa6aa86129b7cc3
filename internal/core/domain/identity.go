package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role is the access level the Account Service assigns to an identity.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSeller, RoleCustomer}
}

// RegistrationRoles lists the roles a visitor may pick for themself when signing up.
func RegistrationRoles() []Role {
	return []Role{RoleCustomer, RoleSeller}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

// ParseRole converts s into a Role, rejecting anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// ID identifies an identity. The Account Service may encode it as a JSON
// number or a JSON string; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identity id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Identity is a registered account record as reported by the Account Service.
type Identity struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
}

// UnmarshalJSON accepts "_id" as an alias for "id".
func (i *Identity) UnmarshalJSON(data []byte) error {
	type plain Identity
	var aux struct {
		plain
		ObjectID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = Identity(aux.plain)
	if i.ID == "" {
		i.ID = aux.ObjectID
	}
	return nil
}

// Validate checks the invariants every identity received from the Account
// Service must satisfy.
func (i Identity) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: identity without id", ErrMalformedResponse)
	}
	if !i.Role.Valid() {
		return fmt.Errorf("%w: identity %s has role %q", ErrMalformedResponse, i.ID, i.Role)
	}
	return nil
}

// IsAdmin reports whether the identity may manage other identities' roles.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// AvatarInitial returns the upper-cased first letter of the username, or "?"
// when there is none.
func (i Identity) AvatarInitial() string {
	return AvatarInitial(i.Username)
}

func AvatarInitial(username string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(username))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
