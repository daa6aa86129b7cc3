package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/guard"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// Guard applies the route guard for v to every request of a route, GET and
// POST alike. It must run after Sessions.
func Guard(v domain.View) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := Session(c)
			if sess == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "browser session missing")
			}

			d := guard.Decide(sess.State, v)
			metrics.GuardDecisionsTotal.WithLabelValues(string(v), d.Outcome.String()).Inc()

			switch d.Outcome {
			case guard.Render:
				return next(c)
			case guard.Redirect:
				return c.Redirect(http.StatusSeeOther, d.Target.Path())
			default:
				// Only a session Sessions could not settle gets here.
				return c.Render(http.StatusOK, view.PageLoading, view.NewPage("Loading", nil, nil))
			}
		}
	}
}
