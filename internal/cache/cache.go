// Package cache keeps recently fetched odds so repeated menu clicks do not
// spend API quota.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/web3guy0/oddsbot/internal/odds"
)

// OddsCache stores raw events per sport key
type OddsCache interface {
	Get(ctx context.Context, sportKey string) ([]odds.Event, bool, error)
	Set(ctx context.Context, sportKey string, events []odds.Event) error
	Delete(ctx context.Context, sportKey string) error
}

// ConnectRedis opens a client and verifies the connection
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

type entry struct {
	events  []odds.Event
	expires time.Time
}

// Memory is an in-process TTL cache
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemory creates a TTL cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, sportKey string) ([]odds.Event, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sportKey]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, sportKey)
		return nil, false, nil
	}
	return e.events, true, nil
}

func (m *Memory) Set(_ context.Context, sportKey string, events []odds.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sportKey] = entry{events: events, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, sportKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sportKey)
	return nil
}

// Redis caches events as JSON with a TTL
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a redis-backed cache
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, prefix: "oddsbot:odds:"}
}

func (r *Redis) Get(ctx context.Context, sportKey string) ([]odds.Event, bool, error) {
	raw, err := r.rdb.Get(ctx, r.prefix+sportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get odds: %w", err)
	}

	var events []odds.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false, fmt.Errorf("decode cached odds: %w", err)
	}
	return events, true, nil
}

func (r *Redis) Set(ctx context.Context, sportKey string, events []odds.Event) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.prefix+sportKey, raw, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, sportKey string) error {
	return r.rdb.Del(ctx, r.prefix+sportKey).Err()
}
