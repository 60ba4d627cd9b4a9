package request

import (
	"strings"

	"cervejaria_storefront/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// CartItemRequest mirrors a storefront cart line. Field names follow the
// storefront backend contract.
type CartItemRequest struct {
	ID       string          `json:"_id" binding:"required"`
	Name     string          `json:"nome"`
	Kind     string          `json:"tipo"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"imagem"`
}

type ShippingAddressRequest struct {
	CEP          string `json:"cep"`
	Address      string `json:"address"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// CheckoutRequest is the payload of POST /v1/checkout.
//
// Address completeness is checked by the use case so the response can list
// every missing field at once.

type CheckoutRequest struct {
	Items           []CartItemRequest      `json:"items" binding:"dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
}

func (r CheckoutRequest) CartItems() []entities.CartItem {
	items := make([]entities.CartItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.CartItem{
			ID:        strings.TrimSpace(it.ID),
			Name:      it.Name,
			Kind:      it.Kind,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.Image,
		})
	}
	return items
}

func (r CheckoutRequest) Address() entities.ShippingAddress {
	a := r.ShippingAddress
	return entities.ShippingAddress{
		PostalCode:   a.CEP,
		Street:       a.Address,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

// OpenPixSessionRequest starts (or restarts) the PIX session of an order
// that already exists, e.g. after the previous code expired. The amount is
// always the order total known to the backend.
type OpenPixSessionRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

func (r OpenPixSessionRequest) ID() string {
	return strings.TrimSpace(r.OrderID)
}
