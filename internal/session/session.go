// Package session holds the per-browser-session authentication state and its
// rehydration protocol. A Session is explicitly constructed and injected into
// the request context by middleware; there is no package-level current user.
package session

import (
	"context"
	"sync"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/logger"
	"tixgate/internal/models"
	"tixgate/internal/tokenstore"
)

// AuthAPI is the slice of the auth client the session needs. Defined here so
// tests can substitute fakes.
type AuthAPI interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) (*models.TokenPair, error)
}

// Session is the reactive authentication state for one browser session:
// the current user, its loading flag and the role helpers. The zero user is
// Guest. All methods are safe for concurrent use.
type Session struct {
	store tokenstore.Store
	auth  AuthAPI

	mu         sync.Mutex
	user       *models.User
	loading    bool
	purchasing bool

	rehydrate    sync.Once
	onRehydrated func(result string)
}

func New(store tokenstore.Store, auth AuthAPI) *Session {
	return &Session{store: store, auth: auth, loading: true}
}

// Store returns the token store backing this session.
func (s *Session) Store() tokenstore.Store { return s.store }

// OnRehydrated registers a callback receiving the rehydration result:
// "guest", "authenticated" or "demoted". Set it before the first request
// reaches the session; it runs once, after Rehydrate settles.
func (s *Session) OnRehydrated(fn func(result string)) {
	s.onRehydrated = fn
}

// Rehydrate runs the startup protocol exactly once per session:
//
//  1. load the stored record; absent means Guest, no network call;
//  2. optimistically adopt the embedded user summary;
//  3. refresh from the server via CurrentUser;
//  4. on failure, one Refresh cycle then one CurrentUser retry;
//  5. on failure again, clear the store and demote to Guest.
//
// The sequence is strictly sequential. Concurrent callers block until the
// first invocation finishes, so a second rehydration is never in flight.
func (s *Session) Rehydrate(ctx context.Context) {
	s.rehydrate.Do(func() { s.run(ctx) })
}

func (s *Session) run(ctx context.Context) {
	result := "guest"
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		if s.onRehydrated != nil {
			s.onRehydrated(result)
		}
	}()

	rec := s.store.Load(ctx)
	if rec == nil {
		return
	}

	s.SetUser(&models.User{
		ID:    rec.User.ID,
		Name:  rec.User.Name,
		Email: rec.User.Email,
		Role:  rec.User.Role,
	})

	user, err := s.auth.CurrentUser(ctx)
	if err == nil {
		s.SetUser(user)
		result = "authenticated"
		return
	}
	logger.WithContext(ctx).Warn("Profile fetch failed, attempting token refresh", "error", err)

	if _, err := s.auth.Refresh(ctx); err != nil {
		logger.WithContext(ctx).Warn("Token refresh failed, demoting to guest", "error", err)
		s.demote(ctx)
		result = "demoted"
		return
	}

	user, err = s.auth.CurrentUser(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("Profile fetch failed after refresh, demoting to guest", "error", err)
		s.demote(ctx)
		result = "demoted"
		return
	}
	s.SetUser(user)
	result = "authenticated"
}

func (s *Session) demote(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		logger.WithContext(ctx).Error("Failed to clear session store", "error", err)
	}
	s.SetUser(nil)
}

// Logout clears the stored record and demotes to Guest.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	s.SetUser(nil)
	return err
}

// SetUser replaces the current user. Called by the auth handlers after
// login/registration and by rehydration.
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// User returns a copy of the current user, or nil for Guest.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoading reports whether rehydration is still in flight.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool { return s.User() != nil }
func (s *Session) IsGuest() bool         { return s.User() == nil }

// Role returns the current role; Guest when no user is set.
func (s *Session) Role() models.Role {
	if u := s.User(); u != nil {
		return u.Role
	}
	return models.RoleGuest
}

// HasRole reports whether the current role equals r. A Guest satisfies only
// the Guest check.
func (s *Session) HasRole(r models.Role) bool {
	return s.Role() == r
}

// HasAnyRole reports whether the current role is in roles.
func (s *Session) HasAnyRole(roles ...models.Role) bool {
	current := s.Role()
	for _, r := range roles {
		if current == r {
			return true
		}
	}
	return false
}

func (s *Session) IsAdmin() bool     { return s.HasRole(models.RoleAdmin) }
func (s *Session) IsOrganizer() bool { return s.HasRole(models.RoleOrganizer) }
func (s *Session) IsAttendee() bool  { return s.HasRole(models.RoleAttendee) }

// BeginPurchase acquires the session's single-flight purchase guard. It
// returns ErrPurchaseInFlight when another purchase from the same session has
// not finished, independent of any UI widget state.
func (s *Session) BeginPurchase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.purchasing {
		return ErrPurchaseInFlight
	}
	s.purchasing = true
	return nil
}

// EndPurchase releases the purchase guard.
func (s *Session) EndPurchase() {
	s.mu.Lock()
	s.purchasing = false
	s.mu.Unlock()
}

// ErrPurchaseInFlight rejects a duplicate purchase from the same session.
var ErrPurchaseInFlight = apperrors.New("a purchase is already in progress for this session")
