package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/credjar"
)

type AuthHandler struct {
	creds ports.CredentialForms
	log   zerolog.Logger
}

func NewAuthHandler(creds ports.CredentialForms, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{creds: creds, log: log}
}

// LoginPage serves GET / for anonymous visitors and GET /login.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	sess, err := browserSession(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageLogin, view.NewPage("Login", sess, view.LoginData{}))
}

// Login handles POST /login. A failed attempt re-renders the form with the
// submitted email; the password is never sent back.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := browserSession(c)
	if err != nil {
		return err
	}

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		sess.Notify(domain.Failure(err.Error()))
		return h.renderLogin(c, sess, form.Email, http.StatusUnprocessableEntity)
	}

	state, err := h.creds.Login(c.Request().Context(), sess.ID, form.draft())
	if err != nil {
		notifyFailure(sess, err, "Login failed")
		return h.renderLogin(c, sess, form.Email, http.StatusUnprocessableEntity)
	}

	sess.State = state
	sess.Users = nil
	sess.Profile = nil
	sess.Notify(domain.Success("Login successful!"))
	return c.Redirect(http.StatusSeeOther, domain.ViewDashboard.Path())
}

func (h *AuthHandler) renderLogin(c echo.Context, sess *domain.BrowserSession, email string, status int) error {
	return c.Render(status, view.PageLogin, view.NewPage("Login", sess, view.LoginData{Email: email}))
}

// RegisterPage handles GET /register with the default role preselected.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	sess, err := browserSession(c)
	if err != nil {
		return err
	}
	data := view.NewRegisterData(domain.NewRegisterDraft())
	return c.Render(http.StatusOK, view.PageRegister, view.NewPage("Register", sess, data))
}

// Register handles POST /register. Success leaves the session untouched and
// sends the visitor to the login form.
func (h *AuthHandler) Register(c echo.Context) error {
	sess, err := browserSession(c)
	if err != nil {
		return err
	}

	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	draft := form.draft()
	if err := c.Validate(&form); err != nil {
		sess.Notify(domain.Failure(err.Error()))
		return h.renderRegister(c, sess, draft)
	}

	if err := h.creds.Register(c.Request().Context(), sess.ID, draft); err != nil {
		notifyFailure(sess, err, "Registration failed")
		return h.renderRegister(c, sess, draft)
	}

	sess.Notify(domain.Success("Registration successful!"))
	return c.Redirect(http.StatusSeeOther, domain.ViewLogin.Path())
}

func (h *AuthHandler) renderRegister(c echo.Context, sess *domain.BrowserSession, d domain.RegisterDraft) error {
	page := view.NewPage("Register", sess, view.NewRegisterData(d))
	return c.Render(http.StatusUnprocessableEntity, view.PageRegister, page)
}

// Logout handles POST /logout. If the Account Service refuses, the visitor
// stays signed in and goes back to the dashboard.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, actor, err := signedIn(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.creds.Logout(ctx, sess.ID, actor.ID); err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID).Msg("logout error")
		return c.Redirect(http.StatusSeeOther, domain.ViewDashboard.Path())
	}

	sess.SignOut()
	if jar := credjar.FromContext(ctx); jar != nil {
		jar.Clear()
	}
	sess.Notify(domain.Info("Logged out successfully!"))
	return c.Redirect(http.StatusSeeOther, domain.ViewLogin.Path())
}
