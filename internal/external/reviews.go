package external

import (
	"context"
	"net/http"
	"strings"

	"tixgate/internal/models"
)

// ReviewClient wraps the review service, including the flag/cancel-flag
// moderation endpoints.
type ReviewClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewReviewClient(cfg Config) *ReviewClient {
	return &ReviewClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (rc *ReviewClient) ByEvent(ctx context.Context, eventID string) ([]models.Review, error) {
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodGet, rc.baseURL+"/api/reviews/event/"+eventID, nil)
	if err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := unwrapEnvelope(status, raw, &reviews, "failed to list reviews"); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Flagged returns reviews awaiting moderation.
func (rc *ReviewClient) Flagged(ctx context.Context) ([]models.Review, error) {
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodGet, rc.baseURL+"/api/reviews/flagged", nil)
	if err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := unwrapEnvelope(status, raw, &reviews, "failed to list flagged reviews"); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (rc *ReviewClient) Create(ctx context.Context, eventID string, req models.ReviewRequest) (*models.Review, error) {
	body := map[string]any{
		"event_id": eventID,
		"rating":   req.Rating,
		"comment":  req.Comment,
	}
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodPost, rc.baseURL+"/api/reviews", body)
	if err != nil {
		return nil, err
	}
	var review models.Review
	if err := unwrapEnvelope(status, raw, &review, "failed to create review"); err != nil {
		return nil, err
	}
	return &review, nil
}

func (rc *ReviewClient) Update(ctx context.Context, reviewID string, req models.ReviewRequest) (*models.Review, error) {
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodPut, rc.baseURL+"/api/reviews/"+reviewID, req)
	if err != nil {
		return nil, err
	}
	var review models.Review
	if err := unwrapEnvelope(status, raw, &review, "failed to update review"); err != nil {
		return nil, err
	}
	return &review, nil
}

func (rc *ReviewClient) Delete(ctx context.Context, reviewID string) error {
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodDelete, rc.baseURL+"/api/reviews/"+reviewID, nil)
	if err != nil {
		return err
	}
	return unwrapEnvelope(status, raw, nil, "failed to delete review")
}

func (rc *ReviewClient) Flag(ctx context.Context, reviewID string) (*models.Review, error) {
	return rc.moderate(ctx, reviewID, "flag")
}

func (rc *ReviewClient) CancelFlag(ctx context.Context, reviewID string) (*models.Review, error) {
	return rc.moderate(ctx, reviewID, "cancel-flag")
}

func (rc *ReviewClient) moderate(ctx context.Context, reviewID, action string) (*models.Review, error) {
	status, raw, err := doJSON(ctx, rc.httpClient, http.MethodPost, rc.baseURL+"/api/reviews/"+reviewID+"/"+action, nil)
	if err != nil {
		return nil, err
	}
	var review models.Review
	if err := unwrapEnvelope(status, raw, &review, "failed to "+action+" review"); err != nil {
		return nil, err
	}
	return &review, nil
}
