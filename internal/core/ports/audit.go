package ports

import (
	"context"

	"github.com/authapp/portal/internal/core/domain"
)

// AuditRepository stores audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the request that produced them.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
