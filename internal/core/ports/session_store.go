package ports

import (
	"context"

	"github.com/authapp/portal/internal/core/domain"
)

// SessionStore persists browser sessions between requests.
type SessionStore interface {
	// Load returns domain.ErrSessionNotFound when id is unknown or expired.
	Load(ctx context.Context, id string) (*domain.BrowserSession, error)
	// Save bumps s.Version on success and returns domain.ErrSessionConflict
	// when the stored copy was saved again after s was loaded.
	Save(ctx context.Context, s *domain.BrowserSession) error
	Delete(ctx context.Context, id string) error
}
