package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"stockroom/internal/core/service"
)

// TestIntegration_ItemLifecycle runs the full add/increment/remove flow
// through the service against a real Redis.
func TestIntegration_ItemLifecycle(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	svc := service.NewInventoryService(adapter, adapter, 100)
	defer svc.Close()

	// Drain the audit queue
	go func() {
		for range svc.Events() {
		}
	}()

	name := "lifecycle-" + uuid.New().String()

	first, err := svc.AddItem(ctx, name, 5)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	defer cleanupItem(ctx, client, name, first.ID)

	second, err := svc.AddItem(ctx, name, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("id changed: %d -> %d", first.ID, second.ID)
	}
	if second.Quantity != 8 {
		t.Errorf("expected quantity 8, got %d", second.Quantity)
	}

	removal, err := svc.RemoveQuantity(ctx, first.ID, 3)
	if err != nil {
		t.Fatalf("partial remove: %v", err)
	}
	if removal.Deleted || removal.Removed != 3 || removal.Prior != 8 {
		t.Errorf("unexpected removal: %+v", removal)
	}

	removal, err = svc.RemoveQuantity(ctx, first.ID, 10)
	if err != nil {
		t.Fatalf("full remove: %v", err)
	}
	if !removal.Deleted {
		t.Error("expected full removal to delete the item")
	}

	if _, err := svc.GetItem(ctx, first.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
	if _, ok, _ := adapter.Resolve(ctx, name); ok {
		t.Error("name resolvable after removal")
	}
}
