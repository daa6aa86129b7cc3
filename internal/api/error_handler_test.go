package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
)

func handle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	renderer, rerr := view.NewRenderer()
	if rerr != nil {
		t.Fatalf("renderer: %v", rerr)
	}
	e := echo.New()
	e.Renderer = renderer
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{"forbidden", fmt.Errorf("users: %w", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{"upstream down", domain.ErrAccountUnavailable, http.StatusBadGateway, "account service is unavailable"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := handle(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tc.body) {
				t.Fatalf("expected %q in body, got %q", tc.body, body)
			}
			if strings.Contains(body, "exploded") {
				t.Fatalf("internal error leaked to the visitor")
			}
		})
	}
}

func TestErrorHandler_NotAuthenticatedRedirectsToLogin(t *testing.T) {
	rec := handle(t, domain.ErrNotAuthenticated)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}
