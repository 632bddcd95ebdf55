package storage

import (
	"context"
	"strconv"
	"sync"

	"stockroom/internal/core/domain"
)

// MemoryAdapter is an in-process implementation of the Directory and
// RecordStore ports with the same semantics as the Redis layout,
// including field-level reads on partially populated records. Used by
// tests and local runs without a Redis.
type MemoryAdapter struct {
	mu      sync.RWMutex
	counter int64
	names   map[string]int64
	records map[int64]map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		names:   make(map[string]int64),
		records: make(map[int64]map[string]string),
	}
}

func (m *MemoryAdapter) Resolve(ctx context.Context, name string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.names[name]
	return id, ok, nil
}

func (m *MemoryAdapter) NextID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.counter, nil
}

func (m *MemoryAdapter) Link(ctx context.Context, name string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[name] = id
	return nil
}

func (m *MemoryAdapter) Unlink(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.names, name)
	return nil
}

func (m *MemoryAdapter) Entries(ctx context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make(map[string]int64, len(m.names))
	for name, id := range m.names {
		entries[name] = id
	}
	return entries, nil
}

func (m *MemoryAdapter) Create(ctx context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[item.ID] = map[string]string{
		fieldID:       strconv.FormatInt(item.ID, 10),
		fieldName:     item.Name,
		fieldQuantity: strconv.FormatInt(item.Quantity, 10),
	}
	return nil
}

func (m *MemoryAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return false, nil
	}
	_, ok = record[fieldID]
	return ok, nil
}

func (m *MemoryAdapter) Fields(ctx context.Context, id int64) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields := make(map[string]string, len(m.records[id]))
	for k, v := range m.records[id] {
		fields[k] = v
	}
	return fields, nil
}

func (m *MemoryAdapter) Name(ctx context.Context, id int64) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.records[id][fieldName]
	return name, ok, nil
}

func (m *MemoryAdapter) Quantity(ctx context.Context, id int64) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.records[id][fieldQuantity]
	if !ok {
		return 0, false, nil
	}
	quantity, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return quantity, true, nil
}

// IncrQuantity mirrors HINCRBY: a missing record or field counts as 0
// and the field is created on first increment.
func (m *MemoryAdapter) IncrQuantity(ctx context.Context, id int64, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		record = make(map[string]string)
		m.records[id] = record
	}

	var current int64
	if val, ok := record[fieldQuantity]; ok {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, err
		}
		current = parsed
	}

	current += delta
	record[fieldQuantity] = strconv.FormatInt(current, 10)
	return current, nil
}

func (m *MemoryAdapter) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}
