package models

import "time"

// EventStatus is the linear state machine executed by the event service:
// DRAFT -> PUBLISHED -> {CANCELLED, COMPLETED}. The gateway only requests
// transitions and reflects whatever state comes back.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
)

// Event is a locally cached copy of an event owned by the event service.
// CountStale marks a registered count that was bumped optimistically after a
// purchase and has not been confirmed by a re-fetch yet.
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	BasePrice       float64     `json:"basePrice"`
	Status          EventStatus `json:"status"`
	EventDate       string      `json:"event_date"`
	UserID          string      `json:"user_id"`
	Capacity        int         `json:"capacity,omitempty"`
	RegisteredCount int         `json:"registered_count"`
	OrganizerName   string      `json:"organizer_name,omitempty"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
	CountStale      bool        `json:"count_stale,omitempty"`
}

// RemainingSpots returns how many seats are left, or -1 for unlimited events.
func (e *Event) RemainingSpots() int {
	if e.Capacity <= 0 {
		return -1
	}
	n := e.Capacity - e.RegisteredCount
	if n < 0 {
		return 0
	}
	return n
}

// EventRequest is the create/update payload sent to the event service.
type EventRequest struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	BasePrice   float64 `json:"basePrice,omitempty"`
	EventDate   string  `json:"event_date,omitempty"`
	Capacity    int     `json:"capacity,omitempty"`
}

// Ticket mirrors the ticket service's ticket type. RemainingQuota is
// decremented by the ticket service, never locally.
type Ticket struct {
	ID             string  `json:"id"`
	EventID        string  `json:"eventId"`
	Type           string  `json:"type"`
	Price          float64 `json:"price"`
	Quota          int     `json:"quota"`
	RemainingQuota int     `json:"remainingQuota"`
	Description    string  `json:"description,omitempty"`
	SaleStart      int64   `json:"saleStart"`
	SaleEnd        int64   `json:"saleEnd"`
	Status         string  `json:"status"`
}

// TicketRequest is the payload for POST /api/tickets.
type TicketRequest struct {
	EventID     string  `json:"eventId" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Price       float64 `json:"price"`
	Quota       int     `json:"quota" binding:"required,min=1"`
	Description string  `json:"description,omitempty"`
	SaleStart   int64   `json:"saleStart"`
	SaleEnd     int64   `json:"saleEnd"`
}

// NATS subjects published by the gateway.
const (
	SubjectPurchaseCompleted      = "purchase.completed"
	SubjectBalanceDeductionFailed = "balance.deduction_failed"
	SubjectEventStatusChanged     = "event.status_changed"
	SubjectSessionSignedIn        = "session.signed_in"
)

// PurchaseCompletedEvent is emitted after a successful purchase flow.
type PurchaseCompletedEvent struct {
	TransactionID string    `json:"transaction_id"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	Quantity      int       `json:"quantity"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// BalanceDeductionFailedEvent is emitted when the withdraw step fails after
// payment already went through, so the partial-failure window is observable.
type BalanceDeductionFailedEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventStatusChangedEvent is emitted after a status transition succeeds.
type EventStatusChangedEvent struct {
	EventID   string      `json:"event_id"`
	Status    EventStatus `json:"status"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// SessionSignedInEvent is emitted on successful login or registration.
type SessionSignedInEvent struct {
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}
