package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/middleware"
	"github.com/authapp/portal/internal/core/domain"
)

// browserSession returns the session attached by the Sessions middleware.
// Its absence means the route was registered without that middleware.
func browserSession(c echo.Context) (*domain.BrowserSession, error) {
	sess := middleware.Session(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "browser session missing")
	}
	return sess, nil
}

// signedIn returns the session together with the visitor's identity and
// fails fast for anonymous visitors, which the guard should already have
// turned away.
func signedIn(c echo.Context) (*domain.BrowserSession, domain.Identity, error) {
	sess, err := browserSession(c)
	if err != nil {
		return nil, domain.Identity{}, err
	}
	id, ok := sess.State.Identity()
	if !ok {
		return nil, domain.Identity{}, domain.ErrNotAuthenticated
	}
	return sess, id, nil
}
