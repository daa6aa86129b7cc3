package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/api/middleware"
	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/domain"
)

var (
	ana   = domain.Identity{ID: "1", Username: "ana", Email: "ana@x.io", Role: domain.RoleAdmin}
	bob   = domain.Identity{ID: "2", Username: "bob", Email: "bob@x.io", Role: domain.RoleCustomer}
	carla = domain.Identity{ID: "3", Username: "carla", Email: "carla@x.io", Role: domain.RoleSeller}
)

var (
	rendererOnce sync.Once
	renderer     *view.Renderer
	rendererErr  error
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	rendererOnce.Do(func() { renderer, rendererErr = view.NewRenderer() })
	if rendererErr != nil {
		t.Fatalf("renderer: %v", rendererErr)
	}
	e := echo.New()
	e.Renderer = renderer
	e.Validator = NewValidator()
	return e
}

func newSession(state domain.SessionState) *domain.BrowserSession {
	sess := domain.NewBrowserSession("sess-1", time.Now())
	sess.State = state
	return sess
}

// call runs h with sess attached. form is sent url-encoded when non-nil.
func call(t *testing.T, h echo.HandlerFunc, sess *domain.BrowserSession, method, target string, form url.Values, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho(t)

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	middleware.SetSession(c, sess)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func lastNotification(t *testing.T, sess *domain.BrowserSession) domain.Notification {
	t.Helper()
	if len(sess.Notifications) == 0 {
		t.Fatalf("expected a notification")
	}
	return sess.Notifications[len(sess.Notifications)-1]
}

type stubCreds struct {
	loginFn    func(draft domain.LoginDraft) (domain.SessionState, error)
	registerFn func(draft domain.RegisterDraft) error
	logoutErr  error
	logouts    int
}

func (s *stubCreds) Login(_ context.Context, _ string, d domain.LoginDraft) (domain.SessionState, error) {
	return s.loginFn(d)
}

func (s *stubCreds) Register(_ context.Context, _ string, d domain.RegisterDraft) error {
	return s.registerFn(d)
}

func (s *stubCreds) Logout(context.Context, string, domain.ID) error {
	s.logouts++
	return s.logoutErr
}

type stubProfiles struct {
	loadID    domain.Identity
	loadErr   error
	submitFn  func(d domain.ProfileDraft) (domain.Identity, error)
	submitted bool
}

func (s *stubProfiles) Load(context.Context) (domain.Identity, error) {
	return s.loadID, s.loadErr
}

func (s *stubProfiles) Submit(_ context.Context, _ string, _ domain.ID, d domain.ProfileDraft) (domain.Identity, error) {
	s.submitted = true
	return s.submitFn(d)
}

type stubRoles struct {
	users    domain.IdentityCollection
	loadErr  error
	changeFn func(users domain.IdentityCollection, target domain.ID, role domain.Role) (domain.IdentityCollection, error)
	pending  map[domain.ID]bool
}

func (s *stubRoles) Load(context.Context) (domain.IdentityCollection, error) {
	return s.users, s.loadErr
}

func (s *stubRoles) RowPending(_ string, target domain.ID) bool {
	return s.pending[target]
}

func (s *stubRoles) ChangeRole(_ context.Context, _ string, _ domain.Identity, users domain.IdentityCollection, target domain.ID, role domain.Role) (domain.IdentityCollection, error) {
	return s.changeFn(users, target, role)
}
