package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const (
	pathOrders      = "/api/orders"
	pathMyOrders    = "/api/orders/myorders"
	pathPixGenerate = "/api/pix/generate"
	pathPixStatus   = "/api/pix/status/"
	pathPixConfirm  = "/api/pix/confirm"

	headerIdempotencyKey = "X-Idempotency-Key"
)

var errMalformedResponse = errors.New("malformed storefront backend response")

// StorefrontClient talks to the storefront backend REST API. It serves both
// order creation and the backend-hosted PIX endpoints.
type StorefrontClient struct {
	http *resty.Client
}

var (
	_ interfaces.IOrderBackend = (*StorefrontClient)(nil)
	_ interfaces.IPixProvider  = (*StorefrontClient)(nil)
)

func NewStorefrontClient(baseURL string, timeout time.Duration) *StorefrontClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	log.Printf("[storefront][client] initialized base_url=%s timeout=%s", baseURL, timeout)
	return &StorefrontClient{http: c}
}

type createOrderBody struct {
	Items           []entities.CartItem      `json:"items"`
	ShippingAddress entities.ShippingAddress `json:"shippingAddress"`
}

type orderPayload struct {
	ID      string           `json:"_id"`
	OrderID string           `json:"orderId"`
	Total   *decimal.Decimal `json:"total"`
	Pix     *pixPayload      `json:"pix"`
}

type createOrderResponse struct {
	orderPayload
	Data *orderPayload `json:"data"`
}

type myOrdersResponse struct {
	Data []orderPayload `json:"data"`
}

type pixPayload struct {
	PixCode        string           `json:"pixCode"`
	QRCodeBase64   string           `json:"qrCodeBase64"`
	ExpirationDate string           `json:"expirationDate"`
	Amount         *decimal.Decimal `json:"amount"`
	PaymentIDMP    json.RawMessage  `json:"paymentIdMP"`
}

type statusResponse struct {
	PaymentStatus string `json:"paymentStatus"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *StorefrontClient) CreateOrder(ctx context.Context, token string, items []entities.CartItem, address entities.ShippingAddress) (entities.Order, error) {
	ctx, span := otel.Tracer("storefront-backend").Start(ctx, "storefront.create_order")
	defer span.End()

	key := uuid.NewString()
	span.SetAttributes(attribute.Int("order.items", len(items)), attribute.String("order.idempotency_key", key))
	log.Printf("[storefront][client] create-order start items=%d idempotency_key=%s", len(items), key)

	var out createOrderResponse
	err := c.do(ctx, token, "POST", pathOrders, map[string]string{headerIdempotencyKey: key}, createOrderBody{Items: items, ShippingAddress: address}, &out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		return entities.Order{}, err
	}

	payload := out.orderPayload
	if out.Data != nil {
		payload = *out.Data
	}
	order, err := payload.toOrder()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed order")
		log.Printf("[storefront][client] create-order malformed response err=%v", err)
		return entities.Order{}, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	log.Printf("[storefront][client] create-order success order_id=%s total=%s", order.ID, order.Total.StringFixed(2))
	return order, nil
}

// GetOrder looks the order up among the caller's own orders, so a token can
// never read the total of somebody else's order.
func (c *StorefrontClient) GetOrder(ctx context.Context, token, orderID string) (entities.Order, error) {
	ctx, span := otel.Tracer("storefront-backend").Start(ctx, "storefront.get_order")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))
	log.Printf("[storefront][client] get-order start order_id=%s", orderID)

	var out myOrdersResponse
	if err := c.do(ctx, token, "GET", pathMyOrders, nil, nil, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list orders failed")
		return entities.Order{}, err
	}
	for _, p := range out.Data {
		if p.ID != orderID && p.OrderID != orderID {
			continue
		}
		order, err := p.toOrder()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "malformed order")
			log.Printf("[storefront][client] get-order malformed response order_id=%s err=%v", orderID, err)
			return entities.Order{}, err
		}
		log.Printf("[storefront][client] get-order success order_id=%s total=%s", order.ID, order.Total.StringFixed(2))
		return order, nil
	}
	span.SetStatus(codes.Error, "order not found")
	log.Printf("[storefront][client] get-order not found order_id=%s orders=%d", orderID, len(out.Data))
	return entities.Order{}, fmt.Errorf("%w: %s", interfaces.ErrOrderNotFound, orderID)
}

func (c *StorefrontClient) GeneratePix(ctx context.Context, token, orderID string, _ decimal.Decimal) (entities.PixCharge, error) {
	ctx, span := otel.Tracer("storefront-backend").Start(ctx, "storefront.generate_pix")
	defer span.End()
	span.SetAttributes(attribute.String("pix.order_id", orderID))
	log.Printf("[storefront][client] generate-pix start order_id=%s", orderID)

	var out pixPayload
	if err := c.do(ctx, token, "POST", pathPixGenerate, nil, map[string]string{"orderId": orderID}, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate pix failed")
		return entities.PixCharge{}, err
	}
	charge, err := out.toCharge()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed pix payload")
		log.Printf("[storefront][client] generate-pix malformed response order_id=%s err=%v", orderID, err)
		return entities.PixCharge{}, err
	}
	log.Printf("[storefront][client] generate-pix success order_id=%s has_expiration=%t", orderID, !charge.ExpiresAt.IsZero())
	return charge, nil
}

func (c *StorefrontClient) GetPixStatus(ctx context.Context, token, orderID string) (entities.PaymentStatus, error) {
	ctx, span := otel.Tracer("storefront-backend").Start(ctx, "storefront.pix_status")
	defer span.End()
	span.SetAttributes(attribute.String("pix.order_id", orderID))

	var out statusResponse
	if err := c.do(ctx, token, "GET", pathPixStatus+orderID, nil, nil, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pix status failed")
		return "", err
	}
	status, ok := entities.ParseRemoteStatus(out.PaymentStatus)
	if !ok {
		log.Printf("[storefront][client] unknown payment status order_id=%s status=%q", orderID, out.PaymentStatus)
		return entities.PaymentStatusPending, nil
	}
	span.SetAttributes(attribute.String("pix.status", string(status)))
	return status, nil
}

func (c *StorefrontClient) ConfirmPix(ctx context.Context, token, orderID string) error {
	ctx, span := otel.Tracer("storefront-backend").Start(ctx, "storefront.confirm_pix")
	defer span.End()
	span.SetAttributes(attribute.String("pix.order_id", orderID))
	log.Printf("[storefront][client] confirm-pix start order_id=%s", orderID)

	if err := c.do(ctx, token, "POST", pathPixConfirm, nil, map[string]string{"orderId": orderID}, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "confirm pix failed")
		return err
	}
	log.Printf("[storefront][client] confirm-pix success order_id=%s", orderID)
	return nil
}

// do sends one request and decodes a 2xx body into out. Non-2xx answers
// become *interfaces.BackendError; transport failures wrap
// interfaces.ErrBackendUnreachable.
func (c *StorefrontClient) do(ctx context.Context, token, method, path string, headers map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetHeaders(headers)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := req.Execute(method, path)
	if err != nil {
		log.Printf("[storefront][client] %s %s transport error err=%v", method, path, err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
	}
	if resp.IsError() {
		var e errorResponse
		_ = json.Unmarshal(resp.Body(), &e)
		log.Printf("[storefront][client] %s %s status=%d message=%q", method, path, resp.StatusCode(), e.Message)
		return &interfaces.BackendError{StatusCode: resp.StatusCode(), Message: e.Message}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", errMalformedResponse, err)
	}
	return nil
}

func (p orderPayload) toOrder() (entities.Order, error) {
	id := p.OrderID
	if id == "" {
		id = p.ID
	}
	if id == "" {
		return entities.Order{}, fmt.Errorf("%w: order id missing", errMalformedResponse)
	}
	if p.Total == nil {
		return entities.Order{}, fmt.Errorf("%w: order total missing", errMalformedResponse)
	}
	order := entities.Order{ID: id, Total: *p.Total}
	if p.Pix != nil && p.Pix.PixCode != "" {
		charge, err := p.Pix.toCharge()
		if err != nil {
			return entities.Order{}, err
		}
		order.Pix = &charge
	}
	return order, nil
}

func (p pixPayload) toCharge() (entities.PixCharge, error) {
	if strings.TrimSpace(p.PixCode) == "" {
		return entities.PixCharge{}, fmt.Errorf("%w: pixCode missing", errMalformedResponse)
	}
	charge := entities.PixCharge{
		PixCode:           p.PixCode,
		QRCodeBase64:      p.QRCodeBase64,
		ProviderPaymentID: strings.Trim(string(p.PaymentIDMP), `"`),
	}
	if charge.ProviderPaymentID == "null" {
		charge.ProviderPaymentID = ""
	}
	if p.Amount != nil {
		charge.Amount = *p.Amount
	}
	if p.ExpirationDate != "" {
		exp, err := time.Parse(time.RFC3339, p.ExpirationDate)
		if err != nil {
			// An unreadable expiration falls back to the default window.
			log.Printf("[storefront][client] ignoring expiration date=%q err=%v", p.ExpirationDate, err)
		} else {
			charge.ExpiresAt = exp
		}
	}
	return charge, nil
}
