package external

import (
	"context"
	"net/http"
	"strings"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
	"tixgate/internal/tokenstore"
)

// AuthClient wraps the auth service. Successful register/login/refresh calls
// persist the resulting session through the token store bound to the request
// context, so the store stays the single source of truth.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAuthClient(cfg Config) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

// Register creates an account and persists the returned session.
func (ac *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return ac.authenticate(ctx, "/api/auth/register", req, "registration failed")
}

// Login authenticates and persists the returned session.
func (ac *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return ac.authenticate(ctx, "/api/auth/login", req, "login failed")
}

func (ac *AuthClient) authenticate(ctx context.Context, path string, body any, fallback string) (*models.AuthResponse, error) {
	status, raw, err := doJSON(ctx, ac.httpClient, http.MethodPost, ac.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	var auth models.AuthResponse
	if err := unwrapEnvelope(status, raw, &auth, fallback); err != nil {
		return nil, asAuthError(err)
	}

	ac.persistSession(ctx, &auth)
	return &auth, nil
}

func (ac *AuthClient) persistSession(ctx context.Context, auth *models.AuthResponse) {
	store, ok := tokenstore.FromContext(ctx)
	if !ok {
		return
	}
	rec := models.SessionRecord{
		Token:        auth.Token,
		RefreshToken: auth.RefreshToken,
		User: models.UserSummary{
			ID:    auth.UserID,
			Name:  auth.Name,
			Email: auth.Email,
			Role:  auth.Role,
		},
		ExpiresAt: tokenstore.DecodeExpiry(auth.Token),
	}
	if err := store.Save(ctx, rec); err != nil {
		// The caller is still logged in for this request; the next one will
		// have to re-authenticate.
		logSaveFailure(ctx, err)
	}
}

// CurrentUser fetches the authenticated profile. Fails with
// ErrNotAuthenticated when no access token is stored.
func (ac *AuthClient) CurrentUser(ctx context.Context) (*models.User, error) {
	if !hasAccessToken(ctx) {
		return nil, apperrors.ErrNotAuthenticated
	}

	status, raw, err := doJSON(ctx, ac.httpClient, http.MethodGet, ac.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := unwrapEnvelope(status, raw, &user, "failed to load profile"); err != nil {
		return nil, asAuthError(err)
	}
	return &user, nil
}

// Refresh exchanges the stored refresh token for a new token pair and merges
// it into the existing session record, preserving the user summary.
func (ac *AuthClient) Refresh(ctx context.Context) (*models.TokenPair, error) {
	store, ok := tokenstore.FromContext(ctx)
	if !ok {
		return nil, apperrors.ErrNoRefreshToken
	}
	refresh := tokenstore.RefreshToken(ctx, store)
	if refresh == "" {
		return nil, apperrors.ErrNoRefreshToken
	}

	body := map[string]string{"refresh_token": refresh}
	status, raw, err := doJSON(ctx, ac.httpClient, http.MethodPost, ac.baseURL+"/api/auth/refresh", body)
	if err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := unwrapEnvelope(status, raw, &pair, "token refresh rejected"); err != nil {
		return nil, asAuthError(err)
	}

	if rec := store.Load(ctx); rec != nil {
		rec.Token = pair.AccessToken
		rec.RefreshToken = pair.RefreshToken
		rec.ExpiresAt = tokenstore.DecodeExpiry(pair.AccessToken)
		if err := store.Save(ctx, *rec); err != nil {
			logSaveFailure(ctx, err)
		}
	}
	return &pair, nil
}

// UpdateProfile PUTs a partial {name, email} patch. At least one field is
// required; that is checked here, before any network call.
func (ac *AuthClient) UpdateProfile(ctx context.Context, userID string, patch models.UpdateProfileRequest) (*models.User, error) {
	if patch.Name == "" && patch.Email == "" {
		return nil, &apperrors.ValidationError{Field: "name", Message: "at least one field must be provided"}
	}
	if !hasAccessToken(ctx) {
		return nil, apperrors.ErrNotAuthenticated
	}

	status, raw, err := doJSON(ctx, ac.httpClient, http.MethodPut, ac.baseURL+"/api/auth/profile/"+userID, patch)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := unwrapEnvelope(status, raw, &user, "profile update failed"); err != nil {
		return nil, asAuthError(err)
	}
	return &user, nil
}

// Logout clears the stored session. The handler layer answers with a full
// redirect to the login entry point so no in-memory state survives.
func (ac *AuthClient) Logout(ctx context.Context) error {
	store, ok := tokenstore.FromContext(ctx)
	if !ok {
		return nil
	}
	return store.Clear(ctx)
}

// asAuthError converts a service-envelope rejection into the auth taxonomy
// so callers can treat every auth-service denial uniformly.
func asAuthError(err error) error {
	var se *apperrors.ServiceError
	if apperrors.As(err, &se) {
		return &apperrors.AuthError{Message: se.Message}
	}
	return err
}

func hasAccessToken(ctx context.Context) bool {
	store, ok := tokenstore.FromContext(ctx)
	if !ok {
		return false
	}
	return tokenstore.AccessToken(ctx, store) != ""
}
