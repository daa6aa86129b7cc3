package service

import (
	"context"
	"sync"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
)

type stubAccounts struct {
	mu sync.Mutex

	profile    *domain.Identity
	profileErr error
	profileHit int
	block      chan struct{}

	loginUser *domain.Identity
	loginErr  error
	lastLogin ports.LoginInput

	registerErr  error
	lastRegister ports.RegisterInput

	logoutErr error
	logouts   int

	updated    *domain.Identity
	updateErr  error
	lastUpdate ports.ProfileUpdate

	users    domain.IdentityCollection
	usersErr error

	roleErr   error
	roleCalls int
	lastRole  domain.Role
	lastRoleT domain.ID
}

func (s *stubAccounts) wait() {
	if s.block != nil {
		<-s.block
	}
}

func (s *stubAccounts) Register(_ context.Context, in ports.RegisterInput) error {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRegister = in
	return s.registerErr
}

func (s *stubAccounts) Login(_ context.Context, in ports.LoginInput) (*domain.Identity, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogin = in
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginUser, nil
}

func (s *stubAccounts) Logout(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	return s.logoutErr
}

func (s *stubAccounts) GetProfile(context.Context) (*domain.Identity, error) {
	s.mu.Lock()
	s.profileHit++
	s.mu.Unlock()
	s.wait()
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profile, nil
}

func (s *stubAccounts) UpdateProfile(_ context.Context, in ports.ProfileUpdate) (*domain.Identity, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate = in
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updated, nil
}

func (s *stubAccounts) ListUsers(context.Context) (domain.IdentityCollection, error) {
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	return s.users, nil
}

func (s *stubAccounts) UpdateRole(_ context.Context, id domain.ID, role domain.Role) error {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleCalls++
	s.lastRoleT = id
	s.lastRole = role
	return s.roleErr
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingSink) Record(ev domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) last() domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return domain.AuditEvent{}
	}
	return r.events[len(r.events)-1]
}
