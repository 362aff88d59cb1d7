package external

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
	"tixgate/internal/tokenstore"
)

func signedTokenWithExp(t *testing.T, exp int64) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": "u-1", "exp": exp})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.fakesig", header, base64.RawURLEncoding.EncodeToString(payload))
}

func envelope(data any) map[string]any {
	return map[string]any{
		"success":     true,
		"status_code": 200,
		"message":     "ok",
		"data":        data,
	}
}

func storeContext(store tokenstore.Store) context.Context {
	return tokenstore.NewContext(context.Background(), store)
}

func TestLoginPersistsSession(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := signedTokenWithExp(t, exp)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)

		json.NewEncoder(w).Encode(envelope(models.AuthResponse{
			Token:        token,
			RefreshToken: "refresh-1",
			UserID:       "u-1",
			Name:         "Alice",
			Email:        "alice@example.com",
			Role:         models.RoleAttendee,
		}))
	}))
	defer srv.Close()

	store := tokenstore.NewMemory()
	client := NewAuthClient(Config{BaseURL: srv.URL})

	auth, err := client.Login(storeContext(store), models.LoginRequest{Email: "alice@example.com", Password: "secret12"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", auth.UserID)

	rec := store.Load(context.Background())
	require.NotNil(t, rec)
	assert.Equal(t, token, rec.Token)
	assert.Equal(t, "refresh-1", rec.RefreshToken)
	assert.Equal(t, models.RoleAttendee, rec.User.Role)
	assert.Equal(t, exp*1000, rec.ExpiresAt)
}

func TestLoginRejectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success":     false,
			"status_code": 401,
			"message":     "invalid credentials",
		})
	}))
	defer srv.Close()

	store := tokenstore.NewMemory()
	client := NewAuthClient(Config{BaseURL: srv.URL})

	_, err := client.Login(storeContext(store), models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	var ae *apperrors.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid credentials", ae.Message)
	assert.Nil(t, store.Load(context.Background()))
}

func TestLoginSuccessFlagWithoutData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "weird"})
	}))
	defer srv.Close()

	client := NewAuthClient(Config{BaseURL: srv.URL})
	_, err := client.Login(storeContext(tokenstore.NewMemory()), models.LoginRequest{Email: "a@b.c", Password: "x"})

	var ae *apperrors.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "weird", ae.Message)
}

func TestCurrentUserWithoutToken(t *testing.T) {
	client := NewAuthClient(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := client.CurrentUser(storeContext(tokenstore.NewMemory()))
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestCurrentUserSendsBearer(t *testing.T) {
	token := signedTokenWithExp(t, time.Now().Add(time.Hour).Unix())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(envelope(models.User{ID: "u-1", Name: "Alice", Role: models.RoleAttendee}))
	}))
	defer srv.Close()

	store := tokenstore.NewMemory()
	ctx := storeContext(store)
	require.NoError(t, store.Save(ctx, models.SessionRecord{
		Token:     token,
		User:      models.UserSummary{ID: "u-1"},
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}))

	client := NewAuthClient(Config{BaseURL: srv.URL})
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestRefreshMergesPreservingUser(t *testing.T) {
	newExp := time.Now().Add(2 * time.Hour).Unix()
	newToken := signedTokenWithExp(t, newExp)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-old", body["refresh_token"])

		json.NewEncoder(w).Encode(envelope(models.TokenPair{
			AccessToken:  newToken,
			RefreshToken: "refresh-new",
		}))
	}))
	defer srv.Close()

	store := tokenstore.NewMemory()
	ctx := storeContext(store)
	summary := models.UserSummary{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: models.RoleOrganizer}
	require.NoError(t, store.Save(ctx, models.SessionRecord{
		Token:        signedTokenWithExp(t, time.Now().Add(time.Hour).Unix()),
		RefreshToken: "refresh-old",
		User:         summary,
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}))

	client := NewAuthClient(Config{BaseURL: srv.URL})
	pair, err := client.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-new", pair.RefreshToken)

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, newToken, rec.Token)
	assert.Equal(t, "refresh-new", rec.RefreshToken)
	assert.Equal(t, summary, rec.User)
	assert.Equal(t, newExp*1000, rec.ExpiresAt)
}

func TestRefreshWithoutStoredToken(t *testing.T) {
	client := NewAuthClient(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := client.Refresh(storeContext(tokenstore.NewMemory()))
	assert.ErrorIs(t, err, apperrors.ErrNoRefreshToken)
}

func TestUpdateProfileRequiresAField(t *testing.T) {
	client := NewAuthClient(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := client.UpdateProfile(storeContext(tokenstore.NewMemory()), "u-1", models.UpdateProfileRequest{})
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewAuthClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.Login(storeContext(tokenstore.NewMemory()), models.LoginRequest{Email: "a@b.c", Password: "x"})

	var ne *apperrors.NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestLogoutClearsStore(t *testing.T) {
	store := tokenstore.NewMemory()
	ctx := storeContext(store)
	require.NoError(t, store.Save(ctx, models.SessionRecord{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}))

	client := NewAuthClient(Config{BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, client.Logout(ctx))
	assert.Nil(t, store.Load(ctx))
}
