package storage

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/core/domain"
)

// MySQLAdapter persists the inventory audit trail.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the inventory_events table when it is missing.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS inventory_events (
			id CHAR(36) PRIMARY KEY,
			event_type VARCHAR(32) NOT NULL,
			item_id BIGINT NOT NULL,
			item_name VARCHAR(255) NOT NULL,
			quantity BIGINT NOT NULL,
			created_at DATETIME NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create inventory_events: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) RecordEvent(ctx context.Context, event domain.Event) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_events (id, event_type, item_id, item_name, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Type, event.ItemID, event.ItemName, event.Quantity, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
