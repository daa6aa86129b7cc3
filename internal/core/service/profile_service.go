package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// ProfileService backs the profile editor.
type ProfileService struct {
	accounts ports.AccountService
	gate     *SubmissionGate
	audit    auditor
	log      zerolog.Logger
}

func NewProfileService(accounts ports.AccountService, gate *SubmissionGate, sink ports.AuditSink, log zerolog.Logger) *ProfileService {
	return &ProfileService{accounts: accounts, gate: gate, audit: newAuditor(sink), log: log}
}

// Load fetches the current identity for the editor. It is independent of
// the session's own identity.
func (s *ProfileService) Load(ctx context.Context) (domain.Identity, error) {
	id, err := s.accounts.GetProfile(ctx)
	if err == nil && id == nil {
		err = fmt.Errorf("%w: profile response without user", domain.ErrMalformedResponse)
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load profile: %w", err)
	}
	return *id, nil
}

// BuildProfileUpdate turns a draft into the outgoing payload. Username, email
// and phone are always present; the password only when a new one was typed.
func BuildProfileUpdate(d domain.ProfileDraft) ports.ProfileUpdate {
	upd := ports.ProfileUpdate{
		Username: d.Username,
		Email:    d.Email,
		Phone:    d.Phone,
	}
	if d.NewPassword != "" {
		pw := d.NewPassword
		upd.Password = &pw
	}
	return upd
}

// Submit sends the draft. The returned identity is the Account Service's
// authoritative copy and supersedes every local one.
func (s *ProfileService) Submit(ctx context.Context, sessionID string, actor domain.ID, d domain.ProfileDraft) (domain.Identity, error) {
	if strings.TrimSpace(d.Username) == "" || strings.TrimSpace(d.Email) == "" {
		return domain.Identity{}, fmt.Errorf("update profile: %w: username and email are required", domain.ErrValidation)
	}

	release, ok := s.gate.TryAcquire(sessionID, "profile")
	if !ok {
		metrics.SubmissionsRefusedTotal.WithLabelValues("profile").Inc()
		return domain.Identity{}, domain.ErrSubmissionPending
	}
	defer release()

	updated, err := s.accounts.UpdateProfile(ctx, BuildProfileUpdate(d))
	if err == nil && updated == nil {
		err = fmt.Errorf("%w: profile response without user", domain.ErrMalformedResponse)
	}
	s.audit.record(domain.AuditEvent{SessionID: sessionID, Action: domain.AuditProfileUpdate, ActorID: actor, TargetID: actor}, err)
	if err != nil {
		s.log.Info().Err(err).Str("session_id", sessionID).Msg("profile update rejected")
		return domain.Identity{}, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("session_id", sessionID).Str("user_id", updated.ID.String()).
		Bool("password_changed", d.NewPassword != "").Msg("profile updated")
	return *updated, nil
}
