package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// RoleAdminService backs the administrators' user table.
type RoleAdminService struct {
	accounts ports.AccountService
	gate     *SubmissionGate
	audit    auditor
	log      zerolog.Logger
}

func NewRoleAdminService(accounts ports.AccountService, gate *SubmissionGate, sink ports.AuditSink, log zerolog.Logger) *RoleAdminService {
	return &RoleAdminService{accounts: accounts, gate: gate, audit: newAuditor(sink), log: log}
}

// Load fetches a fresh identity collection.
func (s *RoleAdminService) Load(ctx context.Context) (domain.IdentityCollection, error) {
	users, err := s.accounts.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RowPending reports whether a role change for target is in flight for this
// browser session.
func (s *RoleAdminService) RowPending(sessionID string, target domain.ID) bool {
	return s.gate.Pending(sessionID, "role", target.String())
}

// ChangeRole reassigns target's role. Only after the Account Service confirms
// is the new role applied, and only to the matching row of users; on any
// failure users is returned unchanged together with the error.
func (s *RoleAdminService) ChangeRole(
	ctx context.Context,
	sessionID string,
	actor domain.Identity,
	users domain.IdentityCollection,
	target domain.ID,
	role domain.Role,
) (domain.IdentityCollection, error) {
	if !actor.IsAdmin() {
		return users, fmt.Errorf("change role: %w", domain.ErrForbidden)
	}
	if actor.ID == target {
		return users, fmt.Errorf("change role: %w", domain.ErrSelfRoleChange)
	}
	if !role.Valid() {
		return users, fmt.Errorf("change role: %w: %q", domain.ErrInvalidRole, role)
	}

	release, ok := s.gate.TryAcquire(sessionID, "role", target.String())
	if !ok {
		metrics.SubmissionsRefusedTotal.WithLabelValues("role").Inc()
		return users, domain.ErrSubmissionPending
	}
	defer release()

	err := s.accounts.UpdateRole(ctx, target, role)
	s.audit.record(domain.AuditEvent{
		SessionID: sessionID,
		Action:    domain.AuditRoleChange,
		ActorID:   actor.ID,
		TargetID:  target,
		Detail:    string(role),
	}, err)
	if err != nil {
		metrics.RoleChangesTotal.WithLabelValues(string(role), "failed").Inc()
		s.log.Warn().Err(err).Str("actor_id", actor.ID.String()).Str("target_id", target.String()).
			Str("role", string(role)).Msg("role change rejected")
		return users, fmt.Errorf("change role: %w", err)
	}

	metrics.RoleChangesTotal.WithLabelValues(string(role), "ok").Inc()
	s.log.Info().Str("actor_id", actor.ID.String()).Str("target_id", target.String()).
		Str("role", string(role)).Msg("role changed")
	return users.ReplaceRole(target, role), nil
}
