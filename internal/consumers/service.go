package consumers

import (
	"context"
	"log/slog"

	"tixgate/internal/config"
	"tixgate/internal/messaging"
	"tixgate/internal/models"
)

// ConsumerService runs the audit consumers for the gateway's event streams.
type ConsumerService struct {
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	return &ConsumerService{
		nats:     natsClient,
		handlers: NewHandlers(),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.SubjectPurchaseCompleted, "audit", cs.handlers.HandlePurchaseCompleted); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectBalanceDeductionFailed, "audit", cs.handlers.HandleBalanceDeductionFailed); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectEventStatusChanged, "audit", cs.handlers.HandleEventStatusChanged); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectSessionSignedIn, "audit", cs.handlers.HandleSessionSignedIn); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
			return err
		}
	}

	return nil
}
