package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reservations:idempotency:"

// Store кэш "ключ идемпотентности -> ID бронирования" в Redis.
// Источник истины - UNIQUE колонка в PostgreSQL, кэш только экономит запрос.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStore создает хранилище ключей идемпотентности
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Lookup возвращает ID бронирования по ключу, found=false если ключ не встречался
func (s *Store) Lookup(ctx context.Context, key string) (int64, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: Lookup: %v", ErrStore, err)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: Lookup: %q", ErrCorruptedValue, value)
	}
	return id, true, nil
}

// Remember сохраняет связь ключа с бронированием. Существующее значение не перезаписывается.
func (s *Store) Remember(ctx context.Context, key string, reservationID int64) error {
	if err := s.client.SetNX(ctx, keyPrefix+key, reservationID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Remember: %v", ErrStore, err)
	}
	return nil
}

// NewRedisClient создает клиент Redis
func NewRedisClient(addr, password string, db, poolSize int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
