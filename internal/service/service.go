package service

import (
	"tixgate/internal/cache"
	"tixgate/internal/external"
	"tixgate/internal/messaging"
	"tixgate/internal/metrics"
)

type Services struct {
	Events   *EventService
	Tickets  *TicketService
	Purchase *PurchaseService
	Wallet   *WalletService
	Reviews  *ReviewService
	Admin    *AdminService
}

func NewServices(
	events *external.EventClient,
	tickets *external.TicketClient,
	transactions *external.TransactionClient,
	reviews *external.ReviewClient,
	valkeyClient *cache.ValkeyClient,
	natsClient *messaging.NATSClient,
	collector *metrics.Collector,
) *Services {
	return &Services{
		Events:   NewEventService(events, valkeyClient, natsClient),
		Tickets:  NewTicketService(tickets, events),
		Purchase: NewPurchaseService(transactions, events, natsClient, collector),
		Wallet:   NewWalletService(transactions),
		Reviews:  NewReviewService(reviews),
		Admin:    NewAdminService(transactions),
	}
}
