package consumers

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"tixgate/internal/models"
)

// Handlers turn gateway events into audit log lines. The deduction-failure
// stream is the important one: every message there is money the platform
// still owes itself.
type Handlers struct{}

func NewHandlers() *Handlers {
	return &Handlers{}
}

func (h *Handlers) HandlePurchaseCompleted(m *stan.Msg) {
	var event models.PurchaseCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal purchase completed event", "error", err)
		return
	}

	slog.Info("Purchase completed",
		"transaction_id", event.TransactionID,
		"event_id", event.EventID,
		"user_id", event.UserID,
		"quantity", event.Quantity,
		"amount", event.Amount)

	m.Ack()
}

func (h *Handlers) HandleBalanceDeductionFailed(m *stan.Msg) {
	var event models.BalanceDeductionFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal deduction failure event", "error", err)
		return
	}

	slog.Error("Balance deduction failed after payment, manual reconciliation needed",
		"transaction_id", event.TransactionID,
		"user_id", event.UserID,
		"amount", event.Amount)

	m.Ack()
}

func (h *Handlers) HandleEventStatusChanged(m *stan.Msg) {
	var event models.EventStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event status change", "error", err)
		return
	}

	slog.Info("Event status changed",
		"event_id", event.EventID,
		"status", event.Status,
		"actor_id", event.ActorID)

	m.Ack()
}

func (h *Handlers) HandleSessionSignedIn(m *stan.Msg) {
	var event models.SessionSignedInEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal sign-in event", "error", err)
		return
	}

	slog.Info("User signed in", "user_id", event.UserID, "role", event.Role)

	m.Ack()
}
