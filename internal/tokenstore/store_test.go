package tokenstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixgate/internal/models"
)

func testRecord(expiresAt int64) models.SessionRecord {
	return models.SessionRecord{
		Token:        "access-token",
		RefreshToken: "refresh-token",
		User: models.UserSummary{
			ID:    "u-1",
			Name:  "Alice",
			Email: "alice@example.com",
			Role:  models.RoleAttendee,
		},
		ExpiresAt: expiresAt,
	}
}

// makeJWT builds an unsigned three-part token with the given claims.
func makeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	body := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.sig", header, body)
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	rec := testRecord(time.Now().Add(time.Hour).UnixMilli())
	require.NoError(t, store.Save(ctx, rec))

	loaded := store.Load(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, rec, *loaded)

	assert.Equal(t, "access-token", AccessToken(ctx, store))
	assert.Equal(t, "refresh-token", RefreshToken(ctx, store))

	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
	assert.Empty(t, AccessToken(ctx, store))
}

func TestLoadExpiredWithinBuffer(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	cases := []struct {
		name      string
		expiresIn time.Duration
		want      bool
	}{
		{"already expired", -time.Hour, false},
		{"expires inside buffer", 4 * time.Minute, false},
		{"expires exactly at buffer", ExpiryBuffer, false},
		{"expires beyond buffer", 6 * time.Minute, true},
		{"no expiry claim", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var exp int64
			if tc.expiresIn != 0 {
				exp = time.Now().Add(tc.expiresIn).UnixMilli()
			}
			require.NoError(t, store.Save(ctx, testRecord(exp)))

			got := store.Load(ctx)
			if tc.want {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestLoadCorruptDataReturnsNil(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{"{not json", "42", `"plain string"`, "[]"} {
		store := NewMemory()
		store.SetRaw([]byte(raw))

		assert.NotPanics(t, func() {
			assert.Nil(t, store.Load(ctx), "raw=%q", raw)
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session", "auth_data.json")
	store := NewFile(path)

	// Missing file is an absent record, and clearing one is a no-op.
	assert.Nil(t, store.Load(ctx))
	require.NoError(t, store.Clear(ctx))

	rec := testRecord(time.Now().Add(time.Hour).UnixMilli())
	require.NoError(t, store.Save(ctx, rec))

	loaded := store.Load(ctx)
	require.NotNil(t, loaded)
	assert.Equal(t, rec, *loaded)

	require.NoError(t, store.Clear(ctx))
	assert.Nil(t, store.Load(ctx))
}

func TestDecodeExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Unix()
	token := makeJWT(t, map[string]any{"sub": "u-1", "exp": exp})

	assert.Equal(t, exp*1000, DecodeExpiry(token))
}

func TestDecodeExpiryMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"one segment":        "garbage",
		"two segments":       "a.b",
		"payload not base64": "a.!!!.c",
		"payload not json":   "a." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".c",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Zero(t, DecodeExpiry(token))
			})
		})
	}
}

func TestDecodeExpiryMissingClaim(t *testing.T) {
	token := makeJWT(t, map[string]any{"sub": "u-1"})
	assert.Zero(t, DecodeExpiry(token))
}

func TestContextRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := NewContext(context.Background(), store)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, store, got.(*Memory))

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
