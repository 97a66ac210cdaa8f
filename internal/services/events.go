package services

import (
	"time"

	"erp/internal/models"
	"erp/pkg/rabbitmq"

	"github.com/rs/zerolog/log"
)

// EventPublisher delivers order lifecycle events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// publishOrderEvent runs after commit. A failed publish is logged; the change stays committed.
func publishOrderEvent(p EventPublisher, eventType rabbitmq.EventType, order *models.Order, previous models.OrderStatus, stockRestored bool) {
	logger := log.With().Str("type", string(eventType)).Str("order_id", order.ID).Logger()
	if p == nil {
		logger.Debug().Msg("event publisher disabled, skipping order event")
		return
	}

	event := rabbitmq.OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		TotalAmount:    order.TotalAmount,
		StockRestored:  stockRestored,
		OccurredAt:     time.Now().UTC(),
	}
	if err := p.PublishOrderEvent(event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish order event")
	}
}
