package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventsListKey = "events:list"

type ValkeyClient struct {
	client   *redis.Client
	eventTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	EventTTL time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.EventTTL <= 0 {
		cfg.EventTTL = 30 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:   rdb,
		eventTTL: cfg.EventTTL,
	}, nil
}

// Client exposes the underlying connection for components that keep their
// own keys, such as the session token store.
func (v *ValkeyClient) Client() *redis.Client {
	return v.client
}

// GetEventsList returns the cached published-events payload, or redis.Nil
// when the cache is cold.
func (v *ValkeyClient) GetEventsList(ctx context.Context) ([]byte, error) {
	raw, err := v.client.Get(ctx, eventsListKey).Bytes()
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetEventsList stores the published-events payload for a short TTL.
func (v *ValkeyClient) SetEventsList(ctx context.Context, raw []byte) error {
	return v.client.Set(ctx, eventsListKey, raw, v.eventTTL).Err()
}

// InvalidateEventsList drops the cached list after an event changes.
func (v *ValkeyClient) InvalidateEventsList(ctx context.Context) error {
	return v.client.Del(ctx, eventsListKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
