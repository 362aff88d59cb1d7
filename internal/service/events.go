package service

import (
	"context"
	"encoding/json"
	"time"

	"tixgate/internal/cache"
	apperrors "tixgate/internal/errors"
	"tixgate/internal/logger"
	"tixgate/internal/messaging"
	"tixgate/internal/models"
)

// EventServiceAPI is the slice of the event service client used here.
type EventServiceAPI interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, eventID string) (*models.Event, error)
	Create(ctx context.Context, req models.EventRequest) (*models.Event, error)
	Update(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error)
	Transition(ctx context.Context, eventID, action string) (*models.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// publishLeadTime is the minimum gap between publishing an event and its
// date. Checked gateway-side so organizers get a field-level error instead
// of an opaque upstream rejection; the event service still has the final say.
const publishLeadTime = 3

type EventService struct {
	client       EventServiceAPI
	valkeyClient *cache.ValkeyClient
	natsClient   *messaging.NATSClient
}

func NewEventService(client EventServiceAPI, valkeyClient *cache.ValkeyClient, natsClient *messaging.NATSClient) *EventService {
	return &EventService{
		client:       client,
		valkeyClient: valkeyClient,
		natsClient:   natsClient,
	}
}

// List serves the events list through the Valkey cache when one is wired.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	if s.valkeyClient != nil {
		if raw, err := s.valkeyClient.GetEventsList(ctx); err == nil {
			var events []models.Event
			if err := json.Unmarshal(raw, &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := s.client.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.valkeyClient != nil {
		if raw, err := json.Marshal(events); err == nil {
			if err := s.valkeyClient.SetEventsList(ctx, raw); err != nil {
				logger.WithContext(ctx).Warn("failed to cache events list", "error", err)
			}
		}
	}

	return events, nil
}

func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	return s.client.Get(ctx, eventID)
}

func (s *EventService) Create(ctx context.Context, actor *models.User, req models.EventRequest) (*models.Event, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	event, err := s.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, actor *models.User, eventID string, req models.EventRequest) (*models.Event, error) {
	if err := s.authorizeOwner(ctx, actor, eventID); err != nil {
		return nil, err
	}

	event, err := s.client.Update(ctx, eventID, req)
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return event, nil
}

// Transition requests publish, cancel or complete. Publishing is refused
// locally when the event date is closer than the required lead time.
func (s *EventService) Transition(ctx context.Context, actor *models.User, eventID, action string) (*models.Event, error) {
	if err := s.authorizeOwner(ctx, actor, eventID); err != nil {
		return nil, err
	}

	if action == "publish" {
		event, err := s.client.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if date, ok := parseEventDate(event.EventDate); ok {
			if date.Before(time.Now().AddDate(0, publishLeadTime, 0)) {
				return nil, &apperrors.ValidationError{
					Field:   "event_date",
					Message: "event date must be at least 3 months away to publish",
				}
			}
		}
	}

	event, err := s.client.Transition(ctx, eventID, action)
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)

	if perr := s.natsClient.Publish(models.SubjectEventStatusChanged, models.EventStatusChangedEvent{
		EventID:   event.ID,
		Status:    event.Status,
		ActorID:   actor.ID,
		Timestamp: time.Now().UTC(),
	}); perr != nil {
		logger.WithContext(ctx).Error("failed to publish event status change", "error", perr)
	}

	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor *models.User, eventID string) error {
	if err := s.authorizeOwner(ctx, actor, eventID); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, eventID); err != nil {
		return err
	}

	s.invalidateList(ctx)
	return nil
}

// authorizeOwner admits admins and the organizer who owns the event.
func (s *EventService) authorizeOwner(ctx context.Context, actor *models.User, eventID string) error {
	if actor == nil {
		return apperrors.ErrNotAuthenticated
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}

	event, err := s.client.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.UserID != actor.ID {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *EventService) invalidateList(ctx context.Context) {
	if s.valkeyClient == nil {
		return
	}
	if err := s.valkeyClient.InvalidateEventsList(ctx); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate events cache", "error", err)
	}
}

func parseEventDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
