package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/view"
)

// Dashboard handles GET /dashboard from the session's identity alone; it
// makes no upstream call.
func Dashboard(c echo.Context) error {
	sess, id, err := signedIn(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageDashboard, view.NewPage("Dashboard", sess, view.DashboardData{User: id}))
}
