package interfaces

import (
	"context"

	"cervejaria_storefront/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// IOrderBackend abstracts the storefront backend order endpoints.
//
// token is the customer's bearer token; implementations forward it as-is.
// GetOrder only finds orders owned by the token's customer and returns
// ErrOrderNotFound otherwise; its total is the authoritative charge amount.
type IOrderBackend interface {
	CreateOrder(ctx context.Context, token string, items []entities.CartItem, address entities.ShippingAddress) (entities.Order, error)
	GetOrder(ctx context.Context, token string, orderID string) (entities.Order, error)
}

// IPixProvider abstracts PIX payload generation and status/confirmation.
//
// The storefront backend implements it over REST and ignores amount; the
// Mercado Pago gateway implements it directly against the provider and
// charges amount.
type IPixProvider interface {
	GeneratePix(ctx context.Context, token string, orderID string, amount decimal.Decimal) (entities.PixCharge, error)
	GetPixStatus(ctx context.Context, token string, orderID string) (entities.PaymentStatus, error)
	ConfirmPix(ctx context.Context, token string, orderID string) error
}
