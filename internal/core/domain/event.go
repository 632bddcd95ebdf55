package domain

import "time"

type EventType string

const (
	EventItemAdded       EventType = "item_added"
	EventQuantityRemoved EventType = "quantity_removed"
	EventItemDeleted     EventType = "item_deleted"
)

// Event is one entry of the inventory audit trail. Events are emitted
// after the store write succeeds and persisted asynchronously.
type Event struct {
	ID        string
	Type      EventType
	ItemID    int64
	ItemName  string
	Quantity  int64
	CreatedAt time.Time
}
