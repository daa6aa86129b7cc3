package view

import "github.com/authapp/portal/internal/core/domain"

// Page names, one per file under templates/pages.
const (
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PageProfile   = "profile"
	PageUsers     = "users"
	PageLoading   = "loading"
	PageError     = "error"
)

// Nav is what the navigation bar needs to know about the visitor.
type Nav struct {
	Authenticated bool
	Admin         bool
	Username      string
	Avatar        string
}

// Page is the data handed to the layout.
type Page struct {
	Title         string
	Nav           Nav
	Notifications []domain.Notification
	Data          any
}

// NewPage builds a page for sess and hands over its queued notifications,
// which are therefore shown exactly once. sess may be nil.
func NewPage(title string, sess *domain.BrowserSession, data any) Page {
	p := Page{Title: title, Data: data}
	if sess == nil {
		return p
	}
	p.Notifications = sess.TakeNotifications()
	if id, ok := sess.State.Identity(); ok {
		p.Nav = Nav{
			Authenticated: true,
			Admin:         id.IsAdmin(),
			Username:      id.Username,
			Avatar:        id.AvatarInitial(),
		}
	}
	return p
}

type LoginData struct {
	Email string
}

// RegisterData never carries the password back to the browser.
type RegisterData struct {
	Username string
	Email    string
	Phone    string
	Role     domain.Role
	Roles    []domain.Role
}

func NewRegisterData(d domain.RegisterDraft) RegisterData {
	role := d.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	return RegisterData{
		Username: d.Username,
		Email:    d.Email,
		Phone:    d.Phone,
		Role:     role,
		Roles:    domain.RegistrationRoles(),
	}
}

type DashboardData struct {
	User domain.Identity
}

// ProfileData renders the editor. Loaded is false when the profile could not
// be fetched; the page then shows a placeholder instead of the form.
type ProfileData struct {
	Loaded   bool
	Identity domain.Identity
	Username string
	Email    string
	Phone    string
	Avatar   string
}

func NewProfileData(id domain.Identity, d domain.ProfileDraft) ProfileData {
	return ProfileData{
		Loaded:   true,
		Identity: id,
		Username: d.Username,
		Email:    d.Email,
		Phone:    d.Phone,
		Avatar:   domain.AvatarInitial(d.Username),
	}
}

// UserRow is one line of the role administration table.
type UserRow struct {
	Index    int
	User     domain.Identity
	Editable bool
	Pending  bool
}

type UsersData struct {
	Rows  []UserRow
	Roles []domain.Role
}

// NewUsersData lays out users for actor. Rows actor may not edit, which is
// always the actor's own row, render as a read-only label. pending reports
// rows with a role change in flight.
func NewUsersData(actor domain.Identity, users domain.IdentityCollection, pending func(domain.ID) bool) UsersData {
	data := UsersData{Rows: make([]UserRow, 0, len(users)), Roles: domain.Roles()}
	for i, u := range users {
		row := UserRow{Index: i + 1, User: u, Editable: domain.CanEditRole(actor, u)}
		if row.Editable && pending != nil {
			row.Pending = pending(u.ID)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// ErrorData is shown for portal-level failures.
type ErrorData struct {
	Status  int
	Message string
}
