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

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/api/middleware"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/infrastructure/db/memory"
)

type settledResolver struct{}

func (settledResolver) Resolve(context.Context, string) domain.SessionState { return domain.Anonymous() }

func TestUsersHandler_OverlappingChangesOnTwoRowsBothStored(t *testing.T) {
	store := memory.NewSessionStore(time.Hour)
	tokens := middleware.NewSessionTokens("0123456789abcdef", time.Hour)

	sess := domain.NewBrowserSession("admin-tab", time.Now())
	sess.State = domain.Authenticated(ana)
	sess.Users = domain.IdentityCollection{ana, bob, carla}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	signed, _ := tokens.Issue(sess.ID)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	stub := &stubRoles{changeFn: func(users domain.IdentityCollection, target domain.ID, role domain.Role) (domain.IdentityCollection, error) {
		if target == bob.ID {
			close(inFlight)
			<-release
		}
		return users.ReplaceRole(target, role), nil
	}}

	e := newEcho(t)
	e.POST("/users/:id/role", NewUsersHandler(stub).ChangeRole,
		middleware.Sessions(store, settledResolver{}, tokens, middleware.CookieOptions{Name: "portal_session", TTL: time.Hour}, zerolog.Nop()))

	post := func(id domain.ID, role domain.Role) *httptest.ResponseRecorder {
		form := url.Values{"role": {string(role)}}
		req := httptest.NewRequest(http.MethodPost, "/users/"+string(id)+"/role", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "portal_session", Value: signed})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var slow *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		slow = post(bob.ID, domain.RoleSeller)
	}()

	<-inFlight
	if rec := post(carla.ID, domain.RoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("second change: expected 200, got %d", rec.Code)
	}
	close(release)
	wg.Wait()
	if slow.Code != http.StatusOK {
		t.Fatalf("first change: expected 200, got %d", slow.Code)
	}

	saved, err := store.Load(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	gotBob, _ := saved.Users.Find(bob.ID)
	gotCarla, _ := saved.Users.Find(carla.ID)
	if gotBob.Role != domain.RoleSeller || gotCarla.Role != domain.RoleAdmin {
		t.Fatalf("a role change was lost: bob=%s carla=%s", gotBob.Role, gotCarla.Role)
	}
	if !saved.State.IsAdmin() {
		t.Fatalf("session state changed: %s", saved.State.Phase())
	}
}
