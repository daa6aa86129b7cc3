package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileEditor
}

func NewProfileHandler(profiles ports.ProfileEditor) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Show handles GET /profile. The editor always starts from a fresh copy
// fetched from the Account Service.
func (h *ProfileHandler) Show(c echo.Context) error {
	sess, _, err := signedIn(c)
	if err != nil {
		return err
	}

	id, err := h.profiles.Load(c.Request().Context())
	if err != nil {
		sess.Profile = nil
		sess.Notify(domain.Failure("Failed to load profile"))
		return c.Render(http.StatusOK, view.PageProfile, view.NewPage("Profile", sess, view.ProfileData{}))
	}

	sess.Profile = &id
	return h.render(c, sess, id, domain.DraftFrom(id), http.StatusOK)
}

// Update handles POST /profile. On success the returned identity replaces
// the snapshot, the draft and the session's identity; on failure the
// submitted draft is shown again and nothing else changes.
func (h *ProfileHandler) Update(c echo.Context) error {
	sess, actor, err := signedIn(c)
	if err != nil {
		return err
	}

	snapshot := actor
	if sess.Profile != nil {
		snapshot = *sess.Profile
	}

	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	draft := form.draft()
	if err := c.Validate(&form); err != nil {
		sess.Notify(domain.Failure(err.Error()))
		return h.render(c, sess, snapshot, draft, http.StatusUnprocessableEntity)
	}

	updated, err := h.profiles.Submit(c.Request().Context(), sess.ID, actor.ID, draft)
	if err != nil {
		notifyFailure(sess, err, "Profile update failed")
		return h.render(c, sess, snapshot, draft, http.StatusUnprocessableEntity)
	}

	sess.Profile = &updated
	sess.State = domain.Authenticated(updated)
	sess.Notify(domain.Success("Profile updated successfully!"))
	return h.render(c, sess, updated, domain.DraftFrom(updated), http.StatusOK)
}

func (h *ProfileHandler) render(c echo.Context, sess *domain.BrowserSession, id domain.Identity, d domain.ProfileDraft, status int) error {
	return c.Render(status, view.PageProfile, view.NewPage("Profile", sess, view.NewProfileData(id, d)))
}
