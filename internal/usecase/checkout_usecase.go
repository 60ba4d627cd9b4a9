package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
	"cervejaria_storefront/pkg/authtoken"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrReauthenticate      = errors.New("authentication required")
	ErrCheckoutUnavailable = errors.New("checkout unavailable, try again")
	ErrInvalidOrderTotal   = errors.New("order total must be positive")
)

// AddressValidationError lists the required address fields left blank.
type AddressValidationError struct {
	Fields []string
}

func (e *AddressValidationError) Error() string {
	return "missing address fields: " + strings.Join(e.Fields, ", ")
}

// BackendValidationError is a 400-class rejection of the order by the
// backend. Message is the backend's own explanation.
type BackendValidationError struct {
	Message string
}

func (e *BackendValidationError) Error() string {
	return "order rejected by backend: " + e.Message
}

// ICheckoutUseCase submits the cart and the delivery address as an order.
//
// Validation happens before any network call. The returned total is the
// backend's; the locally summed cart total is never used as the payment
// amount.
type ICheckoutUseCase interface {
	PlaceOrder(ctx context.Context, token string, items []entities.CartItem, address entities.ShippingAddress) (entities.Order, error)
}

type CheckoutUseCase struct {
	backend interfaces.IOrderBackend
	now     func() time.Time
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(backend interfaces.IOrderBackend) *CheckoutUseCase {
	return &CheckoutUseCase{backend: backend, now: time.Now}
}

func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, token string, items []entities.CartItem, address entities.ShippingAddress) (entities.Order, error) {
	log.Printf("[checkout][usecase] place-order start items=%d", len(items))
	if len(items) == 0 {
		log.Printf("[checkout][usecase] empty cart")
		return entities.Order{}, ErrEmptyCart
	}
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			log.Printf("[checkout][usecase] invalid cart item id=%q quantity=%d", it.ID, it.Quantity)
			return entities.Order{}, fmt.Errorf("%w: %q", ErrInvalidCartItem, it.ID)
		}
	}

	address = address.Normalized()
	if missing := address.MissingFields(); len(missing) > 0 {
		log.Printf("[checkout][usecase] incomplete address missing=%v", missing)
		return entities.Order{}, &AddressValidationError{Fields: missing}
	}

	if err := authtoken.Validate(token, u.now()); err != nil {
		log.Printf("[checkout][usecase] reauthentication required err=%v", err)
		return entities.Order{}, ErrReauthenticate
	}
	if u.backend == nil {
		log.Printf("[checkout][usecase] order backend not configured")
		return entities.Order{}, errors.New("order backend not configured")
	}

	ctx, span := otel.Tracer("checkout-usecase").Start(ctx, "checkout.place_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int("checkout.items", len(items)),
		attribute.String("checkout.local_total", entities.LocalTotal(items).StringFixed(2)),
	)

	order, err := u.backend.CreateOrder(ctx, token, items, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		log.Printf("[checkout][usecase] order creation failed err=%v", err)
		return entities.Order{}, mapOrderBackendError(err)
	}
	if strings.TrimSpace(order.ID) == "" {
		span.SetStatus(codes.Error, "order without id")
		log.Printf("[checkout][usecase] backend returned order without id")
		return entities.Order{}, ErrCheckoutUnavailable
	}
	if !order.Total.GreaterThan(decimal.Zero) {
		span.SetStatus(codes.Error, "non-positive total")
		log.Printf("[checkout][usecase] backend returned non-positive total order_id=%s total=%s", order.ID, order.Total)
		return entities.Order{}, ErrInvalidOrderTotal
	}

	span.SetAttributes(attribute.String("checkout.order_id", order.ID))
	log.Printf("[checkout][usecase] place-order success order_id=%s total=%s pix_included=%t", order.ID, order.Total.StringFixed(2), order.Pix != nil)
	return order, nil
}

func mapOrderBackendError(err error) error {
	if errors.Is(err, interfaces.ErrBackendUnauthorized) {
		return ErrReauthenticate
	}
	var be *interfaces.BackendError
	if errors.As(err, &be) && be.IsValidation() {
		msg := be.Message
		if msg == "" {
			msg = "invalid order"
		}
		return &BackendValidationError{Message: msg}
	}
	return fmt.Errorf("%w: %w", ErrCheckoutUnavailable, err)
}
