package interfaces

import (
	"context"

	"cervejaria_storefront/internal/domain/entities"
)

// IPaymentAttemptRepository abstracts DynamoDB persistence for PaymentAttempt.

type IPaymentAttemptRepository interface {
	Create(ctx context.Context, a entities.PaymentAttempt) (entities.PaymentAttempt, error)
	MarkFinished(ctx context.Context, id string, status entities.PaymentStatus, reason string) (entities.PaymentAttempt, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.PaymentAttempt, error)
}
