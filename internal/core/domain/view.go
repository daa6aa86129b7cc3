package domain

// View names a page of the portal.
type View string

const (
	ViewRoot      View = "root"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewProfile   View = "profile"
	ViewUsers     View = "users"
)

var viewPaths = map[View]string{
	ViewRoot:      "/",
	ViewLogin:     "/login",
	ViewRegister:  "/register",
	ViewDashboard: "/dashboard",
	ViewProfile:   "/profile",
	ViewUsers:     "/users",
}

// Path is the URL path the view is served on.
func (v View) Path() string {
	if p, ok := viewPaths[v]; ok {
		return p
	}
	return "/"
}
