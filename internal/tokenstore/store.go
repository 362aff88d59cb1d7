// Package tokenstore owns the persisted SessionRecord. A Store holds at most
// one record (the analog of the browser's single localStorage key) and is
// deliberately forgiving: absent, corrupt or expired state reads as nil so
// session rehydration survives storage tampering and version drift.
package tokenstore

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tixgate/internal/models"
)

// ExpiryBuffer is subtracted from the token expiry when judging validity: a
// record within five minutes of expiring is already treated as absent.
const ExpiryBuffer = 5 * time.Minute

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "auth_data"

// Store persists a single SessionRecord. Load returns nil for missing,
// corrupt or expired records and never returns an error; Save overwrites
// unconditionally and does not validate the record.
type Store interface {
	Save(ctx context.Context, rec models.SessionRecord) error
	Load(ctx context.Context) *models.SessionRecord
	Clear(ctx context.Context) error
}

// AccessToken is a projection of Load.
func AccessToken(ctx context.Context, s Store) string {
	if rec := s.Load(ctx); rec != nil {
		return rec.Token
	}
	return ""
}

// RefreshToken is a projection of Load.
func RefreshToken(ctx context.Context, s Store) string {
	if rec := s.Load(ctx); rec != nil {
		return rec.RefreshToken
	}
	return ""
}

// expired reports whether the record's expiry (if any) is inside the safety
// buffer. A record without an expiry never expires locally.
func expired(rec *models.SessionRecord, now time.Time) bool {
	if rec.ExpiresAt == 0 {
		return false
	}
	return now.UnixMilli() >= rec.ExpiresAt-ExpiryBuffer.Milliseconds()
}

// DecodeExpiry extracts the exp claim from a JWT without verifying the
// signature and returns it as a millisecond timestamp. Returns 0 on any
// parse failure: malformed token, missing claim, non-numeric claim.
func DecodeExpiry(token string) int64 {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return 0
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.UnixMilli()
}

type ctxKey struct{}

// NewContext binds the request's token store into the context so API clients
// can attach bearer tokens without holding a store reference themselves.
func NewContext(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store bound by NewContext, if any.
func FromContext(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(Store)
	return s, ok
}
