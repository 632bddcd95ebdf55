package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockroom/internal/core/domain"
	"stockroom/internal/port"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// InventoryService implements the inventory operations on top of the
// Directory and RecordStore ports. Every mutation publishes an audit
// event to a buffered queue drained by the audit workers.
type InventoryService struct {
	directory port.Directory
	records   port.RecordStore
	events    chan domain.Event
}

func NewInventoryService(directory port.Directory, records port.RecordStore, queueSize int) *InventoryService {
	return &InventoryService{
		directory: directory,
		records:   records,
		events:    make(chan domain.Event, queueSize),
	}
}

// AddItem increments the quantity of an existing item or creates a new
// one. The returned item carries the post-increment total.
func (s *InventoryService) AddItem(ctx context.Context, name string, quantity int64) (domain.Item, error) {
	if quantity <= 0 {
		return domain.Item{}, ErrInvalidQuantity
	}

	id, ok, err := s.directory.Resolve(ctx, name)
	if err != nil {
		return domain.Item{}, fmt.Errorf("resolve name: %w", err)
	}

	if ok {
		total, err := s.records.IncrQuantity(ctx, id, quantity)
		if err != nil {
			return domain.Item{}, fmt.Errorf("increment quantity: %w", err)
		}
		item := domain.Item{ID: id, Name: name, Quantity: total}
		s.emit(domain.EventItemAdded, id, name, quantity)
		return item, nil
	}

	id, err = s.directory.NextID(ctx)
	if err != nil {
		return domain.Item{}, fmt.Errorf("allocate id: %w", err)
	}

	item := domain.Item{ID: id, Name: name, Quantity: quantity}
	if err := s.records.Create(ctx, item); err != nil {
		return domain.Item{}, fmt.Errorf("create record: %w", err)
	}
	// The record write and the index write are separate store calls; a
	// crash between them leaves an orphan id with no name mapping.
	if err := s.directory.Link(ctx, name, id); err != nil {
		return domain.Item{}, fmt.Errorf("link name: %w", err)
	}

	s.emit(domain.EventItemAdded, id, name, quantity)
	return item, nil
}

// GetItem returns the raw stored field map for id.
func (s *InventoryService) GetItem(ctx context.Context, id int64) (map[string]string, error) {
	ok, err := s.records.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check record: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	fields, err := s.records.Fields(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return fields, nil
}

// ListItems walks the directory and reads each item's record. Records
// with a missing name field are skipped; a missing quantity field reads
// as 0.
func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	entries, err := s.directory.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	items := make([]domain.Item, 0, len(entries))
	for _, id := range entries {
		name, ok, err := s.records.Name(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read name: %w", err)
		}
		if !ok {
			continue
		}

		quantity, _, err := s.records.Quantity(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read quantity: %w", err)
		}

		items = append(items, domain.Item{ID: id, Name: name, Quantity: quantity})
	}
	return items, nil
}

// DeleteItem removes the item's directory entry and record and returns
// the item's name.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) (string, error) {
	ok, err := s.records.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("check record: %w", err)
	}
	if !ok {
		return "", ErrNotFound
	}

	name, err := s.deleteItem(ctx, id)
	if err != nil {
		return "", err
	}

	s.emit(domain.EventItemDeleted, id, name, 0)
	return name, nil
}

// RemoveQuantity decrements the item's quantity by amount, deleting the
// item entirely when amount covers the remaining quantity.
func (s *InventoryService) RemoveQuantity(ctx context.Context, id int64, amount int64) (domain.Removal, error) {
	ok, err := s.records.Exists(ctx, id)
	if err != nil {
		return domain.Removal{}, fmt.Errorf("check record: %w", err)
	}
	if !ok {
		return domain.Removal{}, ErrNotFound
	}

	// A record missing its quantity field counts as holding 0.
	current, _, err := s.records.Quantity(ctx, id)
	if err != nil {
		return domain.Removal{}, fmt.Errorf("read quantity: %w", err)
	}

	if current <= amount {
		name, err := s.deleteItem(ctx, id)
		if err != nil {
			return domain.Removal{}, err
		}
		s.emit(domain.EventItemDeleted, id, name, current)
		return domain.Removal{ItemID: id, Name: name, Prior: current, Deleted: true}, nil
	}

	name, _, err := s.records.Name(ctx, id)
	if err != nil {
		return domain.Removal{}, fmt.Errorf("read name: %w", err)
	}
	if _, err := s.records.IncrQuantity(ctx, id, -amount); err != nil {
		return domain.Removal{}, fmt.Errorf("decrement quantity: %w", err)
	}

	s.emit(domain.EventQuantityRemoved, id, name, amount)
	return domain.Removal{ItemID: id, Name: name, Removed: amount, Prior: current}, nil
}

// deleteItem unlinks the name and drops the record. The two writes are
// not transactional.
func (s *InventoryService) deleteItem(ctx context.Context, id int64) (string, error) {
	name, _, err := s.records.Name(ctx, id)
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}
	if err := s.directory.Unlink(ctx, name); err != nil {
		return "", fmt.Errorf("unlink name: %w", err)
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("delete record: %w", err)
	}
	return name, nil
}

func (s *InventoryService) emit(t domain.EventType, id int64, name string, quantity int64) {
	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      t,
		ItemID:    id,
		ItemName:  name,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	// Audit is best effort: drop the event rather than block the
	// request when the queue is full.
	select {
	case s.events <- event:
	default:
	}
}

// Events exposes the audit queue to the worker pool.
func (s *InventoryService) Events() <-chan domain.Event {
	return s.events
}

// Close closes the audit queue. No mutation may be issued afterwards.
func (s *InventoryService) Close() {
	close(s.events)
}
