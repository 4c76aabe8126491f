package ports

import (
	"context"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// AuditRepository persists the account audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
