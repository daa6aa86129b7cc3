package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// CredentialService backs the login, registration and logout forms.
type CredentialService struct {
	accounts ports.AccountService
	gate     *SubmissionGate
	audit    auditor
	log      zerolog.Logger
}

func NewCredentialService(accounts ports.AccountService, gate *SubmissionGate, sink ports.AuditSink, log zerolog.Logger) *CredentialService {
	return &CredentialService{accounts: accounts, gate: gate, audit: newAuditor(sink), log: log}
}

// Login signs the visitor in. On success the returned state replaces the
// session's state; on failure the caller keeps its current state.
func (s *CredentialService) Login(ctx context.Context, sessionID string, draft domain.LoginDraft) (domain.SessionState, error) {
	if strings.TrimSpace(draft.Email) == "" || draft.Password == "" {
		return domain.SessionState{}, fmt.Errorf("login: %w: email and password are required", domain.ErrValidation)
	}

	release, ok := s.gate.TryAcquire(sessionID, "login")
	if !ok {
		metrics.SubmissionsRefusedTotal.WithLabelValues("login").Inc()
		return domain.SessionState{}, domain.ErrSubmissionPending
	}
	defer release()

	user, err := s.accounts.Login(ctx, ports.LoginInput{Email: draft.Email, Password: draft.Password})
	if err == nil && user == nil {
		err = fmt.Errorf("%w: login response without user", domain.ErrMalformedResponse)
	}
	if err != nil {
		s.log.Info().Err(err).Str("session_id", sessionID).Msg("login rejected")
		s.audit.record(domain.AuditEvent{SessionID: sessionID, Action: domain.AuditLogin, Detail: draft.Email}, err)
		return domain.SessionState{}, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("session_id", sessionID).Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("login succeeded")
	s.audit.record(domain.AuditEvent{SessionID: sessionID, Action: domain.AuditLogin, ActorID: user.ID}, nil)
	return domain.Authenticated(*user), nil
}

// Register creates an account. It never changes the session: a new account
// still has to log in.
func (s *CredentialService) Register(ctx context.Context, sessionID string, draft domain.RegisterDraft) error {
	if strings.TrimSpace(draft.Username) == "" || strings.TrimSpace(draft.Email) == "" || draft.Password == "" {
		return fmt.Errorf("register: %w: username, email and password are required", domain.ErrValidation)
	}
	role := draft.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !slices.Contains(domain.RegistrationRoles(), role) {
		return fmt.Errorf("register: %w: %q", domain.ErrInvalidRole, role)
	}

	release, ok := s.gate.TryAcquire(sessionID, "register")
	if !ok {
		metrics.SubmissionsRefusedTotal.WithLabelValues("register").Inc()
		return domain.ErrSubmissionPending
	}
	defer release()

	err := s.accounts.Register(ctx, ports.RegisterInput{
		Username: draft.Username,
		Email:    draft.Email,
		Password: draft.Password,
		Phone:    draft.Phone,
		Role:     role,
	})
	s.audit.record(domain.AuditEvent{SessionID: sessionID, Action: domain.AuditRegister, Detail: draft.Email}, err)
	if err != nil {
		s.log.Info().Err(err).Str("session_id", sessionID).Msg("registration rejected")
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("session_id", sessionID).Str("role", string(role)).Msg("registration succeeded")
	return nil
}

// Logout ends the upstream session for the visitor identified by actor.
func (s *CredentialService) Logout(ctx context.Context, sessionID string, actor domain.ID) error {
	err := s.accounts.Logout(ctx)
	s.audit.record(domain.AuditEvent{SessionID: sessionID, Action: domain.AuditLogout, ActorID: actor}, err)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("logout failed")
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
