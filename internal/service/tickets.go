package service

import (
	"context"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
)

// TicketAPI is the slice of the ticket service client used here.
type TicketAPI interface {
	ByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	Create(ctx context.Context, req models.TicketRequest) (*models.Ticket, error)
	Delete(ctx context.Context, ticketID string) error
	Validate(ctx context.Context, ticketID string) (*models.Ticket, error)
}

type TicketService struct {
	client EventAPI
	ticket TicketAPI
}

func NewTicketService(ticket TicketAPI, events EventAPI) *TicketService {
	return &TicketService{ticket: ticket, client: events}
}

func (s *TicketService) ByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return s.ticket.ByEvent(ctx, eventID)
}

// Create registers a ticket type for an event. Only admins and the event's
// organizer may do it.
func (s *TicketService) Create(ctx context.Context, actor *models.User, req models.TicketRequest) (*models.Ticket, error) {
	if err := s.authorizeOwner(ctx, actor, req.EventID); err != nil {
		return nil, err
	}
	return s.ticket.Create(ctx, req)
}

func (s *TicketService) Delete(ctx context.Context, actor *models.User, ticketID string) error {
	if actor == nil {
		return apperrors.ErrNotAuthenticated
	}
	return s.ticket.Delete(ctx, ticketID)
}

func (s *TicketService) Validate(ctx context.Context, ticketID string) (*models.Ticket, error) {
	return s.ticket.Validate(ctx, ticketID)
}

func (s *TicketService) authorizeOwner(ctx context.Context, actor *models.User, eventID string) error {
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
