package handlers

import (
	"errors"
	"log"
	"net/http"

	"cervejaria_storefront/internal/adapter/http/dto/request"
	"cervejaria_storefront/internal/adapter/http/dto/response"
	"cervejaria_storefront/internal/usecase"
	"cervejaria_storefront/pkg"
	"cervejaria_storefront/pkg/authtoken"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler turns a cart into an order and opens its PIX session.

type CheckoutHandler struct {
	checkout usecase.ICheckoutUseCase
	sessions usecase.IPixSessionUseCase
}

func NewCheckoutHandler(checkout usecase.ICheckoutUseCase, sessions usecase.IPixSessionUseCase) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, sessions: sessions}
}

// PlaceOrder godoc
// @Summary      Place an order and start its PIX payment
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      request.CheckoutRequest  true  "Cart and shipping address"
// @Success      201   {object}  response.CheckoutResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      401   {object}  pkg.HTTPError
// @Failure      502   {object}  pkg.HTTPError
// @Router       /checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[checkout][handler] invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	token := authtoken.FromHeader(c.GetHeader("Authorization"))
	items := req.CartItems()
	log.Printf("[checkout][handler] place-order start items=%d", len(items))

	order, err := h.checkout.PlaceOrder(c.Request.Context(), token, items, req.Address())
	if err != nil {
		log.Printf("[checkout][handler] place-order failed err=%v", err)
		appErr := mapCheckoutError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	st, err := h.sessions.Open(c.Request.Context(), token, order)
	if err != nil {
		log.Printf("[checkout][handler] open session failed order_id=%s err=%v", order.ID, err)
		appErr := mapPixSessionError(err).WithDetail("order_id", order.ID)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[checkout][handler] place-order success order_id=%s status=%s", order.ID, st.Kind)

	c.JSON(http.StatusCreated, response.FromCheckout(order, items, st))
}

func mapCheckoutError(err error) *pkg.AppError {
	var addrErr *usecase.AddressValidationError
	var rejected *usecase.BackendValidationError
	switch {
	case errors.Is(err, usecase.ErrEmptyCart):
		return pkg.NewDomainErrorSimple("EMPTY_CART", "Cart is empty", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidCartItem):
		return pkg.NewDomainErrorSimple("INVALID_CART_ITEM", "Invalid cart item", http.StatusBadRequest)
	case errors.As(err, &addrErr):
		return pkg.NewDomainErrorSimple("ADDRESS_INCOMPLETE", "Fill in every address field", http.StatusBadRequest).
			WithDetail("fields", addrErr.Fields)
	case errors.Is(err, usecase.ErrReauthenticate):
		return pkg.NewDomainErrorSimple("REAUTHENTICATE", "Sign in again to continue", http.StatusUnauthorized)
	case errors.As(err, &rejected):
		return pkg.NewDomainErrorSimple("ORDER_REJECTED", rejected.Message, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrCheckoutUnavailable):
		return pkg.NewDomainError("CHECKOUT_UNAVAILABLE", "Could not place the order, try again", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvalidOrderTotal):
		return pkg.NewDomainError("INVALID_ORDER_TOTAL", "Order total returned by the store is invalid", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
