package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"stockroom/internal/adapter/storage"
	"stockroom/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	itemName      = "stress-test-item"
	totalRequests = 50
	addPerRequest = 2
	queueSize     = 100
)

func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	if idStr, err := rdb.HGet(ctx, "item_name_to_id", itemName).Result(); err == nil {
		rdb.Del(ctx, "item_id:"+idStr)
	}
	rdb.HDel(ctx, "item_name_to_id", itemName)

	adapter := storage.NewRedisAdapter(rdb)
	inventory := service.NewInventoryService(adapter, adapter, queueSize)
	defer inventory.Close()

	// Drain the audit queue in background
	go func() {
		for range inventory.Events() {
		}
	}()

	// Seed the item so every concurrent add takes the increment path.
	seeded, err := inventory.AddItem(ctx, itemName, 1)
	if err != nil {
		log.Fatalf("failed to seed item: %v", err)
	}

	var failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := inventory.AddItem(ctx, itemName, addPerRequest); err != nil {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	expected := int64(1 + totalRequests*addPerRequest)
	total, _, err := adapter.Quantity(ctx, seeded.ID)
	if err != nil {
		log.Fatalf("failed to read quantity: %v", err)
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Item ID:          %d\n", seeded.ID)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Final Quantity:   %d\n", total)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if failCount.Load() == 0 && total == expected {
		fmt.Printf("PASS: quantity aggregated to %d with no lost updates\n", expected)
	} else {
		fmt.Printf("FAIL: expected quantity %d, got %d (%d failures)\n",
			expected, total, failCount.Load())
	}

	// Remove everything; the item must vanish entirely.
	removal, err := inventory.RemoveQuantity(ctx, seeded.ID, total)
	if err != nil {
		log.Fatalf("failed to remove quantity: %v", err)
	}
	exists, _ := adapter.Exists(ctx, seeded.ID)
	_, linked, _ := adapter.Resolve(ctx, itemName)

	if removal.Deleted && !exists && !linked {
		fmt.Println("PASS: full removal deleted the item and its name mapping")
	} else {
		fmt.Println("FAIL: item still present after full removal")
	}
}
