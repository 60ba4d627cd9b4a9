package interfaces

import (
	"context"

	"cervejaria_storefront/internal/domain/entities"
)

// IPaymentEventPublisher emits terminal session events for downstream
// consumers (fulfilment, notifications).
type IPaymentEventPublisher interface {
	Publish(ctx context.Context, event entities.PaymentSessionEvent) error
}
