package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"cervejaria_storefront/internal/adapter/http/dto/request"
	"cervejaria_storefront/internal/adapter/http/dto/response"
	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase"
	"cervejaria_storefront/pkg"
	"cervejaria_storefront/pkg/authtoken"

	"github.com/gin-gonic/gin"
)

// PixSessionHandler exposes the running PIX sessions to the storefront UI.
//
// Every endpoint forwards the caller's bearer token; a session is only
// visible to the customer that owns the order. Every mutating endpoint
// answers with the resulting render state, so the client never has to guess
// what to show next.
type PixSessionHandler struct {
	usecase usecase.IPixSessionUseCase
}

func NewPixSessionHandler(uc usecase.IPixSessionUseCase) *PixSessionHandler {
	return &PixSessionHandler{usecase: uc}
}

// Open starts the session of an existing order, or returns the one already
// running or approved. Used to retry after an expired or failed code; the
// charged amount is looked up on the backend.
func (h *PixSessionHandler) Open(c *gin.Context) {
	var req request.OpenPixSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[pix][handler] open invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	orderID := req.ID()
	log.Printf("[pix][handler] open start order_id=%s", orderID)

	st, err := h.usecase.Reopen(c.Request.Context(), bearer(c), orderID)
	if err != nil {
		log.Printf("[pix][handler] open failed order_id=%s err=%v", orderID, err)
		h.fail(c, err)
		return
	}
	log.Printf("[pix][handler] open success order_id=%s status=%s", orderID, st.Kind)

	c.JSON(http.StatusCreated, response.FromRenderState(st))
}

func (h *PixSessionHandler) Get(c *gin.Context) {
	orderID := c.Param("order_id")
	st, err := h.usecase.Snapshot(c.Request.Context(), bearer(c), orderID)
	if err != nil {
		log.Printf("[pix][handler] get failed order_id=%s err=%v", orderID, err)
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRenderState(st))
}

// Events streams render states as server-sent events until the session
// reaches a final state or the client goes away.
func (h *PixSessionHandler) Events(c *gin.Context) {
	orderID := c.Param("order_id")
	states, unsubscribe, err := h.usecase.Subscribe(c.Request.Context(), bearer(c), orderID)
	if err != nil {
		log.Printf("[pix][handler] events failed order_id=%s err=%v", orderID, err)
		h.fail(c, err)
		return
	}
	defer unsubscribe()
	log.Printf("[pix][handler] events start order_id=%s", orderID)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-states:
			if !ok {
				return false
			}
			c.SSEvent("state", response.FromRenderState(st))
			return !st.IsFinal()
		}
	})
	log.Printf("[pix][handler] events end order_id=%s", orderID)
}

func (h *PixSessionHandler) RequestConfirmation(c *gin.Context) {
	orderID := c.Param("order_id")
	st, err := h.usecase.RequestConfirmation(c.Request.Context(), bearer(c), orderID)
	h.respond(c, "request-confirmation", orderID, st, err)
}

func (h *PixSessionHandler) DismissConfirmation(c *gin.Context) {
	orderID := c.Param("order_id")
	st, err := h.usecase.DismissConfirmation(c.Request.Context(), bearer(c), orderID)
	h.respond(c, "dismiss-confirmation", orderID, st, err)
}

// Confirm sends the acknowledged manual confirmation to the payment
// backend. On failure the body still carries the session, which stays
// pending with a notice.
func (h *PixSessionHandler) Confirm(c *gin.Context) {
	orderID := c.Param("order_id")
	st, err := h.usecase.Confirm(c.Request.Context(), bearer(c), orderID)
	h.respond(c, "confirm", orderID, st, err)
}

func (h *PixSessionHandler) Close(c *gin.Context) {
	orderID := c.Param("order_id")
	if err := h.usecase.Close(c.Request.Context(), bearer(c), orderID); err != nil {
		log.Printf("[pix][handler] close failed order_id=%s err=%v", orderID, err)
		h.fail(c, err)
		return
	}
	log.Printf("[pix][handler] close success order_id=%s", orderID)
	c.Status(http.StatusNoContent)
}

func (h *PixSessionHandler) Attempts(c *gin.Context) {
	orderID := c.Param("order_id")
	attempts, err := h.usecase.Attempts(c.Request.Context(), bearer(c), orderID)
	if err != nil {
		log.Printf("[pix][handler] attempts failed order_id=%s err=%v", orderID, err)
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentAttempts(attempts))
}

func bearer(c *gin.Context) string {
	return authtoken.FromHeader(c.GetHeader("Authorization"))
}

func (h *PixSessionHandler) respond(c *gin.Context, op, orderID string, st entities.RenderState, err error) {
	if err != nil {
		log.Printf("[pix][handler] %s failed order_id=%s err=%v", op, orderID, err)
		appErr := mapPixSessionError(err)
		if st.OrderID != "" {
			appErr = appErr.WithDetail("session", response.FromRenderState(st))
		}
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[pix][handler] %s success order_id=%s status=%s", op, orderID, st.Kind)
	c.JSON(http.StatusOK, response.FromRenderState(st))
}

func (h *PixSessionHandler) fail(c *gin.Context, err error) {
	appErr := mapPixSessionError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapPixSessionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewDomainErrorSimple("INVALID_ORDER_ID", "Invalid order id", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrReauthenticate):
		return pkg.NewDomainErrorSimple("REAUTHENTICATE", "Sign in again to continue", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrSessionForbidden):
		return pkg.NewDomainErrorSimple("SESSION_FORBIDDEN", "This PIX session belongs to another customer", http.StatusForbidden)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCheckoutUnavailable):
		return pkg.NewDomainError("CHECKOUT_UNAVAILABLE", "Storefront backend unavailable, try again", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvalidOrderTotal):
		return pkg.NewDomainError("INVALID_ORDER_TOTAL", "Order total returned by the store is invalid", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrSessionNotFound):
		return pkg.NewDomainErrorSimple("SESSION_NOT_FOUND", "PIX session not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrSessionClosed):
		return pkg.NewDomainErrorSimple("SESSION_CLOSED", "PIX session is no longer pending", http.StatusConflict)
	case errors.Is(err, usecase.ErrConfirmationNotRequested):
		return pkg.NewDomainErrorSimple("CONFIRMATION_NOT_REQUESTED", "Request the confirmation before confirming", http.StatusConflict)
	case errors.Is(err, usecase.ErrManualConfirmationFailed):
		return pkg.NewDomainError("CONFIRMATION_FAILED", "Payment could not be confirmed", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrLedgerDisabled):
		return pkg.NewDomainErrorSimple("LEDGER_DISABLED", "Payment attempt history is not enabled", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
