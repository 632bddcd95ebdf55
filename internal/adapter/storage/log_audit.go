package storage

import (
	"context"

	"go.uber.org/zap"

	"stockroom/internal/core/domain"
)

// LogAudit writes audit events to the application log. It stands in
// for the MySQL adapter when no DSN is configured.
type LogAudit struct {
	log *zap.Logger
}

func NewLogAudit(log *zap.Logger) *LogAudit {
	return &LogAudit{log: log}
}

func (l *LogAudit) RecordEvent(ctx context.Context, event domain.Event) error {
	l.log.Info("inventory event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Int64("item_id", event.ItemID),
		zap.String("item_name", event.ItemName),
		zap.Int64("quantity", event.Quantity),
	)
	return nil
}
