package tokenstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tixgate/internal/models"
)

// Valkey persists the record under a single key in Valkey/Redis, one key per
// browser session. Backend errors on Load degrade to an absent record; the
// caller re-authenticates instead of crashing on a cache hiccup.
type Valkey struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// NewValkey builds a store bound to key. ttl bounds how long an untouched
// record survives in the backend; zero means no backend expiry.
func NewValkey(client *redis.Client, key string, ttl time.Duration) *Valkey {
	if key == "" {
		key = DefaultKey
	}
	return &Valkey{client: client, key: key, ttl: ttl, now: time.Now}
}

func (v *Valkey) Save(ctx context.Context, rec models.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return v.client.Set(ctx, v.key, raw, v.ttl).Err()
}

func (v *Valkey) Load(ctx context.Context) *models.SessionRecord {
	raw, err := v.client.Get(ctx, v.key).Bytes()
	if err != nil {
		return nil
	}
	return decode(raw, v.now())
}

func (v *Valkey) Clear(ctx context.Context) error {
	return v.client.Del(ctx, v.key).Err()
}
