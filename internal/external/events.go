package external

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tixgate/internal/models"
)

// EventClient wraps the event service. Its responses are the messy ones:
// list/get/update answer with raw objects, some status endpoints answer with
// the envelope, so everything goes through unwrapFlexible.
type EventClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewEventClient(cfg Config) *EventClient {
	return &EventClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (ec *EventClient) List(ctx context.Context) ([]models.Event, error) {
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodGet, ec.baseURL+"/api/events", nil)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := unwrapFlexible(status, raw, &events, "failed to list events"); err != nil {
		return nil, err
	}
	return events, nil
}

func (ec *EventClient) Get(ctx context.Context, eventID string) (*models.Event, error) {
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodGet, ec.baseURL+"/api/events/"+eventID, nil)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := unwrapFlexible(status, raw, &event, "failed to get event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (ec *EventClient) Create(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodPost, ec.baseURL+"/api/events", req)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := unwrapFlexible(status, raw, &event, "failed to create event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (ec *EventClient) Update(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodPut, ec.baseURL+"/api/events/"+eventID, req)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := unwrapFlexible(status, raw, &event, "failed to update event"); err != nil {
		return nil, err
	}
	return &event, nil
}

// Transition invokes one of the status endpoints (publish, cancel, complete)
// and returns the event state the service settled on.
func (ec *EventClient) Transition(ctx context.Context, eventID, action string) (*models.Event, error) {
	url := fmt.Sprintf("%s/api/events/%s/%s", ec.baseURL, eventID, action)
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := unwrapFlexible(status, raw, &event, "failed to "+action+" event"); err != nil {
		return nil, err
	}
	return &event, nil
}

func (ec *EventClient) Delete(ctx context.Context, eventID string) error {
	status, raw, err := doJSON(ctx, ec.httpClient, http.MethodDelete, ec.baseURL+"/api/events/"+eventID, nil)
	if err != nil {
		return err
	}
	return unwrapFlexible(status, raw, nil, "failed to delete event")
}
