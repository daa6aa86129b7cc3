package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
)

func newCredentialService(accounts *stubAccounts, sink *recordingSink) *CredentialService {
	if sink == nil {
		return NewCredentialService(accounts, NewSubmissionGate(), nil, zerolog.Nop())
	}
	return NewCredentialService(accounts, NewSubmissionGate(), sink, zerolog.Nop())
}

func TestCredentialService_Login_Success(t *testing.T) {
	user := &domain.Identity{ID: "1", Username: "ana", Email: "ana@x.io", Role: domain.RoleAdmin}
	accounts := &stubAccounts{loginUser: user}
	sink := &recordingSink{}
	svc := newCredentialService(accounts, sink)

	state, err := svc.Login(context.Background(), "s1", domain.LoginDraft{Email: "ana@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if !state.IsAuthenticated() || !state.IsAdmin() {
		t.Fatalf("expected authenticated admin, got %s", state.Phase())
	}
	if accounts.lastLogin.Email != "ana@x.io" || accounts.lastLogin.Password != "pw" {
		t.Fatalf("unexpected login input: %+v", accounts.lastLogin)
	}
	if ev := sink.last(); ev.Action != domain.AuditLogin || !ev.Succeeded || ev.ActorID != "1" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestCredentialService_Login_Rejected(t *testing.T) {
	accounts := &stubAccounts{loginErr: &domain.RemoteError{Status: 401, Message: "Invalid credentials"}}
	sink := &recordingSink{}
	svc := newCredentialService(accounts, sink)

	_, err := svc.Login(context.Background(), "s1", domain.LoginDraft{Email: "ana@x.io", Password: "bad"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := domain.UserMessage(err, "Login failed"); got != "Invalid credentials" {
		t.Fatalf("unexpected user message: %q", got)
	}
	if ev := sink.last(); ev.Succeeded {
		t.Fatalf("failed login must be audited as failed")
	}
}

func TestCredentialService_Login_Validation(t *testing.T) {
	accounts := &stubAccounts{}
	svc := newCredentialService(accounts, nil)

	if _, err := svc.Login(context.Background(), "s1", domain.LoginDraft{Email: " ", Password: "pw"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if accounts.lastLogin.Email != "" {
		t.Fatalf("invalid draft must not reach the account service")
	}
}

func TestCredentialService_Login_RefusesDuplicate(t *testing.T) {
	accounts := &stubAccounts{
		loginUser: &domain.Identity{ID: "1", Username: "ana", Role: domain.RoleCustomer},
		block:     make(chan struct{}),
	}
	gate := NewSubmissionGate()
	svc := NewCredentialService(accounts, gate, nil, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.Login(context.Background(), "s1", domain.LoginDraft{Email: "a@x.io", Password: "pw"})
	}()
	for !gate.Pending("s1", "login") {
		runtime.Gosched()
	}

	_, err := svc.Login(context.Background(), "s1", domain.LoginDraft{Email: "a@x.io", Password: "pw"})
	if !errors.Is(err, domain.ErrSubmissionPending) {
		t.Fatalf("expected ErrSubmissionPending, got %v", err)
	}

	close(accounts.block)
	wg.Wait()
	if gate.Pending("s1", "login") {
		t.Fatalf("gate not released after completion")
	}
}

func TestCredentialService_Register_DefaultsToCustomer(t *testing.T) {
	accounts := &stubAccounts{}
	svc := newCredentialService(accounts, nil)

	err := svc.Register(context.Background(), "s1", domain.RegisterDraft{Username: "bo", Email: "bo@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if accounts.lastRegister.Role != domain.RoleCustomer {
		t.Fatalf("expected customer role, got %q", accounts.lastRegister.Role)
	}
}

func TestCredentialService_Register_RoleChoices(t *testing.T) {
	svc := newCredentialService(&stubAccounts{}, nil)
	draft := domain.RegisterDraft{Username: "bo", Email: "bo@x.io", Password: "pw"}

	draft.Role = domain.RoleSeller
	if err := svc.Register(context.Background(), "s1", draft); err != nil {
		t.Fatalf("seller must be allowed: %v", err)
	}
	draft.Role = domain.RoleAdmin
	if err := svc.Register(context.Background(), "s1", draft); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for admin, got %v", err)
	}
}

func TestCredentialService_Register_Rejected(t *testing.T) {
	accounts := &stubAccounts{registerErr: &domain.RemoteError{Status: 409, Message: "Email already registered"}}
	svc := newCredentialService(accounts, nil)

	err := svc.Register(context.Background(), "s1", domain.RegisterDraft{Username: "bo", Email: "bo@x.io", Password: "pw"})
	if got := domain.UserMessage(err, "Registration failed"); got != "Email already registered" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestCredentialService_Logout(t *testing.T) {
	accounts := &stubAccounts{}
	sink := &recordingSink{}
	svc := newCredentialService(accounts, sink)

	if err := svc.Logout(context.Background(), "s1", "1"); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}
	if accounts.logouts != 1 {
		t.Fatalf("expected one upstream logout, got %d", accounts.logouts)
	}

	accounts.logoutErr = domain.ErrAccountUnavailable
	if err := svc.Logout(context.Background(), "s1", "1"); !errors.Is(err, domain.ErrAccountUnavailable) {
		t.Fatalf("expected ErrAccountUnavailable, got %v", err)
	}
	if ev := sink.last(); ev.Action != domain.AuditLogout || ev.Succeeded {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}
