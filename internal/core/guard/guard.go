// Package guard decides, for a session state and a requested view, whether the
// view is rendered or the visitor is sent elsewhere. It is a pure decision
// table with no I/O.
package guard

import "github.com/authapp/portal/internal/core/domain"

// Outcome is the kind of Decision.
type Outcome int

const (
	// Render serves the requested view.
	Render Outcome = iota
	// Redirect sends the visitor to Decision.Target.
	Redirect
	// Wait shows the neutral loading page; the session is still resolving.
	Wait
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	}
	return "unknown"
}

// Decision is the guard's answer for one navigation.
type Decision struct {
	Outcome Outcome
	Target  domain.View
}

func render() Decision                  { return Decision{Outcome: Render} }
func redirectTo(v domain.View) Decision { return Decision{Outcome: Redirect, Target: v} }

// Decide applies the access table:
//
//	root            authenticated → dashboard, anonymous → render (login)
//	login/register  always render
//	dashboard/profile  authenticated → render, anonymous → login
//	users           admin → render, everyone else (anonymous included) → dashboard
//
// A resolving session always waits. Unknown views go to root.
func Decide(state domain.SessionState, requested domain.View) Decision {
	if state.Phase() == domain.PhaseResolving {
		return Decision{Outcome: Wait}
	}

	switch requested {
	case domain.ViewRoot:
		if state.IsAuthenticated() {
			return redirectTo(domain.ViewDashboard)
		}
		return render()
	case domain.ViewLogin, domain.ViewRegister:
		return render()
	case domain.ViewDashboard, domain.ViewProfile:
		if state.IsAuthenticated() {
			return render()
		}
		return redirectTo(domain.ViewLogin)
	case domain.ViewUsers:
		if state.IsAdmin() {
			return render()
		}
		return redirectTo(domain.ViewDashboard)
	}
	return redirectTo(domain.ViewRoot)
}
