package service

import (
	"context"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
)

// ReviewAPI is the slice of the review service client used here.
type ReviewAPI interface {
	ByEvent(ctx context.Context, eventID string) ([]models.Review, error)
	Flagged(ctx context.Context) ([]models.Review, error)
	Create(ctx context.Context, eventID string, req models.ReviewRequest) (*models.Review, error)
	Update(ctx context.Context, reviewID string, req models.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, reviewID string) error
	Flag(ctx context.Context, reviewID string) (*models.Review, error)
	CancelFlag(ctx context.Context, reviewID string) (*models.Review, error)
}

type ReviewService struct {
	client ReviewAPI
}

func NewReviewService(client ReviewAPI) *ReviewService {
	return &ReviewService{client: client}
}

func (s *ReviewService) ByEvent(ctx context.Context, eventID string) ([]models.Review, error) {
	return s.client.ByEvent(ctx, eventID)
}

func (s *ReviewService) Flagged(ctx context.Context) ([]models.Review, error) {
	return s.client.Flagged(ctx)
}

func (s *ReviewService) Create(ctx context.Context, actor *models.User, eventID string, req models.ReviewRequest) (*models.Review, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.client.Create(ctx, eventID, req)
}

func (s *ReviewService) Update(ctx context.Context, actor *models.User, reviewID string, req models.ReviewRequest) (*models.Review, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.client.Update(ctx, reviewID, req)
}

func (s *ReviewService) Delete(ctx context.Context, actor *models.User, reviewID string) error {
	if actor == nil {
		return apperrors.ErrNotAuthenticated
	}
	return s.client.Delete(ctx, reviewID)
}

// Flag and CancelFlag are moderation actions, reserved for organizers and
// admins by the route guard.
func (s *ReviewService) Flag(ctx context.Context, reviewID string) (*models.Review, error) {
	return s.client.Flag(ctx, reviewID)
}

func (s *ReviewService) CancelFlag(ctx context.Context, reviewID string) (*models.Review, error) {
	return s.client.CancelFlag(ctx, reviewID)
}
