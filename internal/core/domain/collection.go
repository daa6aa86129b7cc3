package domain

// IdentityCollection is the ordered list of identities shown to an
// administrator. It is a snapshot and is never kept in sync with the
// session's own identity.
type IdentityCollection []Identity

// ReplaceRole returns a copy of the collection in which only the row whose id
// matches has its role set to role. Order and all other rows are preserved.
// The receiver is never modified.
func (c IdentityCollection) ReplaceRole(id ID, role Role) IdentityCollection {
	if c == nil {
		return nil
	}
	out := make(IdentityCollection, len(c))
	copy(out, c)
	for i := range out {
		if out[i].ID == id {
			out[i].Role = role
		}
	}
	return out
}

// Find returns the row with the given id.
func (c IdentityCollection) Find(id ID) (Identity, bool) {
	for _, u := range c {
		if u.ID == id {
			return u, true
		}
	}
	return Identity{}, false
}

// CanEditRole reports whether actor may be offered a role control for row.
// Administrators never get a control for their own row.
func CanEditRole(actor, row Identity) bool {
	return actor.IsAdmin() && actor.ID != row.ID
}
