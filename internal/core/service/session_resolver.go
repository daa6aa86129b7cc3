package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// SessionResolver turns a fresh browser session into anonymous or
// authenticated by asking the Account Service for the current profile.
type SessionResolver struct {
	accounts ports.AccountService
	group    singleflight.Group
	log      zerolog.Logger
}

func NewSessionResolver(accounts ports.AccountService, log zerolog.Logger) *SessionResolver {
	return &SessionResolver{accounts: accounts, log: log}
}

// Resolve never fails: any problem fetching the profile means the visitor is
// anonymous. Concurrent calls for the same session share one upstream request.
func (r *SessionResolver) Resolve(ctx context.Context, sessionID string) domain.SessionState {
	v, _, _ := r.group.Do(sessionID, func() (any, error) {
		return r.fetch(ctx, sessionID), nil
	})
	state, ok := v.(domain.SessionState)
	if !ok {
		return domain.Anonymous()
	}
	return state
}

func (r *SessionResolver) fetch(ctx context.Context, sessionID string) (state domain.SessionState) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("session_id", sessionID).Str("panic", fmt.Sprint(p)).Msg("session resolve panicked")
			state = domain.Anonymous()
		}
		metrics.SessionResolutionsTotal.WithLabelValues(string(state.Phase())).Inc()
	}()

	id, err := r.accounts.GetProfile(ctx)
	if err != nil {
		r.log.Debug().Err(err).Str("session_id", sessionID).Msg("no current identity, session is anonymous")
		return domain.Anonymous()
	}
	if id == nil {
		return domain.Anonymous()
	}
	if err := id.Validate(); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("discarding invalid current identity")
		return domain.Anonymous()
	}

	r.log.Debug().Str("session_id", sessionID).Str("user_id", id.ID.String()).Msg("session resolved")
	return domain.Authenticated(*id)
}
