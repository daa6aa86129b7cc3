package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
)

type UsersHandler struct {
	roles ports.RoleAdministration
}

func NewUsersHandler(roles ports.RoleAdministration) *UsersHandler {
	return &UsersHandler{roles: roles}
}

// List handles GET /users. Every visit fetches a fresh collection and keeps
// it on the session; a failed fetch shows an empty table.
func (h *UsersHandler) List(c echo.Context) error {
	sess, actor, err := signedIn(c)
	if err != nil {
		return err
	}

	users, err := h.roles.Load(c.Request().Context())
	if err != nil {
		notifyFailure(sess, err, "Failed to load users")
		users = domain.IdentityCollection{}
	}
	sess.Users = users
	return h.render(c, sess, actor, http.StatusOK)
}

// ChangeRole handles POST /users/:id/role and shows the table again from the
// session's collection, updated only when the Account Service agreed. When
// that collection never held the row, a successful change sends the visitor
// to GET /users for a fresh list instead.
func (h *UsersHandler) ChangeRole(c echo.Context) error {
	sess, actor, err := signedIn(c)
	if err != nil {
		return err
	}

	var form roleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		sess.Notify(domain.Failure(err.Error()))
		return h.render(c, sess, actor, http.StatusUnprocessableEntity)
	}

	target := domain.ID(c.Param("id"))
	users, err := h.roles.ChangeRole(c.Request().Context(), sess.ID, actor, sess.Users, target, domain.Role(form.Role))
	if err != nil {
		notifyFailure(sess, err, "Failed to update role")
		return h.render(c, sess, actor, http.StatusUnprocessableEntity)
	}

	sess.Notify(domain.Success("Role updated successfully!"))
	if _, known := sess.Users.Find(target); !known {
		return c.Redirect(http.StatusSeeOther, domain.ViewUsers.Path())
	}
	sess.Users = users
	return h.render(c, sess, actor, http.StatusOK)
}

func (h *UsersHandler) render(c echo.Context, sess *domain.BrowserSession, actor domain.Identity, status int) error {
	pending := func(id domain.ID) bool { return h.roles.RowPending(sess.ID, id) }
	data := view.NewUsersData(actor, sess.Users, pending)
	return c.Render(status, view.PageUsers, view.NewPage("Users", sess, data))
}
