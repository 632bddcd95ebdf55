package port

import (
	"context"

	"stockroom/internal/core/domain"
)

// AuditRepository persists inventory mutation events.
type AuditRepository interface {
	RecordEvent(ctx context.Context, event domain.Event) error
}
