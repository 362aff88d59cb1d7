package external

import (
	"context"
	"net/http"
	"strings"

	"tixgate/internal/models"
)

// TicketClient wraps the ticket service.
type TicketClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTicketClient(cfg Config) *TicketClient {
	return &TicketClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (tc *TicketClient) ByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodGet, tc.baseURL+"/api/tickets/event/"+eventID, nil)
	if err != nil {
		return nil, err
	}
	var tickets []models.Ticket
	if err := unwrapFlexible(status, raw, &tickets, "failed to list tickets"); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (tc *TicketClient) Create(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPost, tc.baseURL+"/api/tickets", req)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := unwrapFlexible(status, raw, &ticket, "failed to create ticket"); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (tc *TicketClient) Delete(ctx context.Context, ticketID string) error {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodDelete, tc.baseURL+"/api/tickets/"+ticketID, nil)
	if err != nil {
		return err
	}
	return unwrapFlexible(status, raw, nil, "failed to delete ticket")
}

// Validate marks a ticket as used at the venue.
func (tc *TicketClient) Validate(ctx context.Context, ticketID string) (*models.Ticket, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPost, tc.baseURL+"/api/tickets/"+ticketID+"/validate", nil)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := unwrapFlexible(status, raw, &ticket, "failed to validate ticket"); err != nil {
		return nil, err
	}
	return &ticket, nil
}
