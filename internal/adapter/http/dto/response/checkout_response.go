package response

import (
	"cervejaria_storefront/internal/domain/entities"
)

// CheckoutResponse carries the created order and its PIX session.
// LocalTotal is the cart sum plus shipping as computed by the BFF; Total is
// the backend's and is the amount charged.
type CheckoutResponse struct {
	OrderID    string             `json:"order_id"`
	Total      string             `json:"total"`
	LocalTotal string             `json:"local_total"`
	Session    PixSessionResponse `json:"session"`
}

func FromCheckout(order entities.Order, items []entities.CartItem, st entities.RenderState) CheckoutResponse {
	return CheckoutResponse{
		OrderID:    order.ID,
		Total:      order.Total.StringFixed(2),
		LocalTotal: entities.LocalTotal(items).StringFixed(2),
		Session:    FromRenderState(st),
	}
}
