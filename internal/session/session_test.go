package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
	"tixgate/internal/tokenstore"
)

type fakeAuth struct {
	mu           sync.Mutex
	currentUser  func() (*models.User, error)
	refresh      func() (*models.TokenPair, error)
	currentCalls int
	refreshCalls int
}

func (f *fakeAuth) CurrentUser(context.Context) (*models.User, error) {
	f.mu.Lock()
	f.currentCalls++
	f.mu.Unlock()
	return f.currentUser()
}

func (f *fakeAuth) Refresh(context.Context) (*models.TokenPair, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	if f.refresh == nil {
		return nil, apperrors.ErrNoRefreshToken
	}
	return f.refresh()
}

func validRecord() models.SessionRecord {
	return models.SessionRecord{
		Token:        "tok",
		RefreshToken: "ref",
		User: models.UserSummary{
			ID:    "u-1",
			Name:  "Cached Alice",
			Email: "alice@example.com",
			Role:  models.RoleAttendee,
		},
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}
}

func TestRehydrateNoRecordStaysGuestWithoutNetwork(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{currentUser: func() (*models.User, error) {
		t.Fatal("CurrentUser must not be called for a guest")
		return nil, nil
	}}

	s := New(tokenstore.NewMemory(), auth)
	assert.True(t, s.IsLoading())

	s.Rehydrate(ctx)

	assert.False(t, s.IsLoading())
	assert.True(t, s.IsGuest())
	assert.Equal(t, models.RoleGuest, s.Role())
	assert.Zero(t, auth.currentCalls)
}

func TestRehydrateSuccessAdoptsServerUser(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	auth := &fakeAuth{currentUser: func() (*models.User, error) {
		return &models.User{ID: "u-1", Name: "Server Alice", Role: models.RoleOrganizer}, nil
	}}

	s := New(store, auth)
	s.Rehydrate(ctx)

	assert.False(t, s.IsLoading())
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "Server Alice", s.User().Name)
	assert.Equal(t, models.RoleOrganizer, s.Role())
	assert.Equal(t, 1, auth.currentCalls)
	assert.Zero(t, auth.refreshCalls)
}

func TestRehydrateRefreshRetrySucceeds(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	calls := 0
	auth := &fakeAuth{
		currentUser: func() (*models.User, error) {
			calls++
			if calls == 1 {
				return nil, &apperrors.AuthError{Message: "token expired"}
			}
			return &models.User{ID: "u-1", Name: "Refreshed Alice", Role: models.RoleAttendee}, nil
		},
		refresh: func() (*models.TokenPair, error) {
			return &models.TokenPair{AccessToken: "new", RefreshToken: "new-ref"}, nil
		},
	}

	s := New(store, auth)
	s.Rehydrate(ctx)

	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "Refreshed Alice", s.User().Name)
	assert.Equal(t, 2, auth.currentCalls)
	assert.Equal(t, 1, auth.refreshCalls)
}

func TestRehydrateTotalFailureDemotesToGuestAndClearsStore(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	auth := &fakeAuth{
		currentUser: func() (*models.User, error) {
			return nil, &apperrors.AuthError{Message: "token expired"}
		},
		refresh: func() (*models.TokenPair, error) {
			return nil, &apperrors.AuthError{Message: "refresh token revoked"}
		},
	}

	s := New(store, auth)
	s.Rehydrate(ctx)

	assert.False(t, s.IsLoading())
	assert.True(t, s.IsGuest())
	assert.Nil(t, s.User())
	assert.Nil(t, store.Load(ctx), "token store must be cleared")
	// Refresh failed, so CurrentUser is not retried.
	assert.Equal(t, 1, auth.currentCalls)
	assert.Equal(t, 1, auth.refreshCalls)
}

func TestRehydrateFailsAfterRefreshDemotes(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	auth := &fakeAuth{
		currentUser: func() (*models.User, error) {
			return nil, &apperrors.AuthError{Message: "nope"}
		},
		refresh: func() (*models.TokenPair, error) {
			return &models.TokenPair{AccessToken: "new"}, nil
		},
	}

	s := New(store, auth)
	s.Rehydrate(ctx)

	assert.True(t, s.IsGuest())
	assert.Nil(t, store.Load(ctx))
	assert.Equal(t, 2, auth.currentCalls)
}

func TestRehydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	auth := &fakeAuth{currentUser: func() (*models.User, error) {
		return &models.User{ID: "u-1", Role: models.RoleAttendee}, nil
	}}

	s := New(store, auth)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Rehydrate(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, auth.currentCalls, "rehydration must be single-flight")
}

func TestRehydrateReportsResult(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		seed bool
		auth *fakeAuth
		want string
	}{
		{
			name: "no record",
			auth: &fakeAuth{currentUser: func() (*models.User, error) { return nil, nil }},
			want: "guest",
		},
		{
			name: "server confirms",
			seed: true,
			auth: &fakeAuth{currentUser: func() (*models.User, error) {
				return &models.User{ID: "u-1", Role: models.RoleAttendee}, nil
			}},
			want: "authenticated",
		},
		{
			name: "refresh revoked",
			seed: true,
			auth: &fakeAuth{
				currentUser: func() (*models.User, error) {
					return nil, &apperrors.AuthError{Message: "token expired"}
				},
				refresh: func() (*models.TokenPair, error) {
					return nil, &apperrors.AuthError{Message: "refresh token revoked"}
				},
			},
			want: "demoted",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := tokenstore.NewMemory()
			if tc.seed {
				require.NoError(t, store.Save(ctx, validRecord()))
			}

			var results []string
			s := New(store, tc.auth)
			s.OnRehydrated(func(result string) { results = append(results, result) })

			s.Rehydrate(ctx)
			s.Rehydrate(ctx)

			assert.Equal(t, []string{tc.want}, results, "callback fires once with the outcome")
		})
	}
}

func TestRoleHelpers(t *testing.T) {
	s := New(tokenstore.NewMemory(), &fakeAuth{})

	// Guest satisfies only the Guest check.
	assert.True(t, s.HasRole(models.RoleGuest))
	assert.False(t, s.HasRole(models.RoleAdmin))
	assert.True(t, s.HasAnyRole(models.RoleGuest, models.RoleAdmin))
	assert.False(t, s.HasAnyRole(models.RoleAdmin, models.RoleOrganizer))

	s.SetUser(&models.User{ID: "u-2", Role: models.RoleAdmin})
	assert.True(t, s.IsAdmin())
	assert.False(t, s.IsOrganizer())
	assert.False(t, s.HasRole(models.RoleGuest))
	assert.True(t, s.HasAnyRole(models.RoleOrganizer, models.RoleAdmin))
}

func TestLogoutDemotes(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemory()
	require.NoError(t, store.Save(ctx, validRecord()))

	s := New(store, &fakeAuth{})
	s.SetUser(&models.User{ID: "u-1", Role: models.RoleAttendee})

	require.NoError(t, s.Logout(ctx))
	assert.True(t, s.IsGuest())
	assert.Nil(t, store.Load(ctx))
}

func TestPurchaseGuardSingleFlight(t *testing.T) {
	s := New(tokenstore.NewMemory(), &fakeAuth{})

	require.NoError(t, s.BeginPurchase())
	assert.ErrorIs(t, s.BeginPurchase(), ErrPurchaseInFlight)

	s.EndPurchase()
	assert.NoError(t, s.BeginPurchase())
}

func TestManagerReusesAndEvicts(t *testing.T) {
	created := 0
	m := NewManager(func(sid string) *Session {
		created++
		return New(tokenstore.NewMemory(), &fakeAuth{})
	}, time.Hour)
	defer m.Stop()

	a := m.Get("sid-1")
	b := m.Get("sid-1")
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	m.Get("sid-2")
	assert.Equal(t, 2, m.Len())

	m.Drop(context.Background(), "sid-1")
	assert.Equal(t, 1, m.Len())
}
