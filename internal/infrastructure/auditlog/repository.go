// Package auditlog writes audit events to the application log. It stands in
// for the Mongo repository when no MONGO_URI is configured.
package auditlog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
)

type Repository struct {
	log zerolog.Logger
}

func NewRepository(log zerolog.Logger) *Repository {
	return &Repository{log: log.With().Str("component", "audit").Logger()}
}

func (r *Repository) InsertEvent(_ context.Context, ev domain.AuditEvent) error {
	e := r.log.Info()
	if !ev.Succeeded {
		e = r.log.Warn()
	}
	e.Str("session_id", ev.SessionID).
		Str("action", string(ev.Action)).
		Bool("succeeded", ev.Succeeded).
		Time("at", ev.At)
	if ev.ActorID != "" {
		e.Str("actor_id", ev.ActorID.String())
	}
	if ev.TargetID != "" {
		e.Str("target_id", ev.TargetID.String())
	}
	if ev.Detail != "" {
		e.Str("detail", ev.Detail)
	}
	e.Msg("audit")
	return nil
}
