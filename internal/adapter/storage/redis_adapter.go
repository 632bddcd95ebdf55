package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"stockroom/internal/core/domain"
)

const (
	counterKey      = "item_ids"
	nameIndexKey    = "item_name_to_id"
	recordKeyPrefix = "item_id:"

	fieldID       = "item_id"
	fieldName     = "item_name"
	fieldQuantity = "quantity"
)

// RedisAdapter implements both the Directory and RecordStore ports on a
// single Redis database. Layout: item_ids holds the id counter,
// item_name_to_id is the name index hash, item_id:{id} is the record
// hash with item_id, item_name and quantity fields.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func recordKey(id int64) string {
	return recordKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *RedisAdapter) Resolve(ctx context.Context, name string) (int64, bool, error) {
	val, err := r.client.HGet(ctx, nameIndexKey, name).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("hget %s: %w", nameIndexKey, err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse id %q: %w", val, err)
	}
	return id, true, nil
}

// NextID relies on INCR being atomic; the counter only ever moves
// forward, so ids are unique for the lifetime of the data.
func (r *RedisAdapter) NextID(ctx context.Context) (int64, error) {
	id, err := r.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", counterKey, err)
	}
	return id, nil
}

func (r *RedisAdapter) Link(ctx context.Context, name string, id int64) error {
	return r.client.HSet(ctx, nameIndexKey, name, id).Err()
}

func (r *RedisAdapter) Unlink(ctx context.Context, name string) error {
	return r.client.HDel(ctx, nameIndexKey, name).Err()
}

func (r *RedisAdapter) Entries(ctx context.Context) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, nameIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", nameIndexKey, err)
	}

	entries := make(map[string]int64, len(raw))
	for name, val := range raw {
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q for %q: %w", val, name, err)
		}
		entries[name] = id
	}
	return entries, nil
}

func (r *RedisAdapter) Create(ctx context.Context, item domain.Item) error {
	return r.client.HSet(ctx, recordKey(item.ID),
		fieldID, item.ID,
		fieldName, item.Name,
		fieldQuantity, item.Quantity,
	).Err()
}

func (r *RedisAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.client.HExists(ctx, recordKey(id), fieldID).Result()
	if err != nil {
		return false, fmt.Errorf("hexists %s: %w", recordKey(id), err)
	}
	return ok, nil
}

func (r *RedisAdapter) Fields(ctx context.Context, id int64) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, recordKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", recordKey(id), err)
	}
	return fields, nil
}

func (r *RedisAdapter) Name(ctx context.Context, id int64) (string, bool, error) {
	name, err := r.client.HGet(ctx, recordKey(id), fieldName).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %s: %w", recordKey(id), err)
	}
	return name, true, nil
}

func (r *RedisAdapter) Quantity(ctx context.Context, id int64) (int64, bool, error) {
	val, err := r.client.HGet(ctx, recordKey(id), fieldQuantity).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("hget %s: %w", recordKey(id), err)
	}

	quantity, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse quantity %q: %w", val, err)
	}
	return quantity, true, nil
}

// IncrQuantity uses HINCRBY so concurrent increments on the same id
// never lose updates.
func (r *RedisAdapter) IncrQuantity(ctx context.Context, id int64, delta int64) (int64, error) {
	total, err := r.client.HIncrBy(ctx, recordKey(id), fieldQuantity, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby %s: %w", recordKey(id), err)
	}
	return total, nil
}

func (r *RedisAdapter) Delete(ctx context.Context, id int64) error {
	return r.client.Del(ctx, recordKey(id)).Err()
}
