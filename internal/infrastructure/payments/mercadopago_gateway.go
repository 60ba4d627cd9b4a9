package payments

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

const (
	pixPaymentMethodID = "pix"
	pixExpiration      = 30 * time.Minute
	msgNotIdentified   = "Payment not identified yet"
)

// MercadoPagoPixProvider creates and checks PIX payments directly on
// Mercado Pago, bypassing the storefront backend PIX endpoints. The
// storefront order id is sent as external reference.
type MercadoPagoPixProvider struct {
	client     payment.Client
	payerEmail string
	mockMode   bool
	now        func() time.Time

	mu       sync.Mutex
	payments map[string]int
	mocked   map[string]entities.PaymentStatus
}

var _ interfaces.IPixProvider = (*MercadoPagoPixProvider)(nil)

func NewMercadoPagoPixProvider(accessToken, payerEmail string) (*MercadoPagoPixProvider, error) {
	p := &MercadoPagoPixProvider{
		payerEmail: payerEmail,
		now:        time.Now,
		payments:   make(map[string]int),
		mocked:     make(map[string]entities.PaymentStatus),
	}
	if isPaymentGatewayMockEnabled() {
		log.Printf("[pix][mercadopago] mock mode enabled")
		p.mockMode = true
		return p, nil
	}

	if accessToken == "" {
		log.Printf("[pix][mercadopago] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[pix][mercadopago] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[pix][mercadopago] Mercado Pago client initialized")

	p.client = payment.NewClient(cfg)
	return p, nil
}

func (p *MercadoPagoPixProvider) GeneratePix(ctx context.Context, _ string, orderID string, amount decimal.Decimal) (entities.PixCharge, error) {
	if p == nil {
		return entities.PixCharge{}, ErrMercadoPagoGatewayNotConfigured
	}
	if !amount.GreaterThan(decimal.Zero) {
		return entities.PixCharge{}, &interfaces.BackendError{StatusCode: http.StatusBadRequest, Message: "amount must be positive"}
	}
	expiresAt := p.now().UTC().Add(pixExpiration)

	if p.mockMode {
		id := int(p.now().UTC().UnixNano() % 1_000_000_000)
		code := fmt.Sprintf("00020126360014br.gov.bcb.pix0114mock-%s5204000053039865405%s6304MOCK", orderID, amount.StringFixed(2))
		p.mu.Lock()
		p.payments[orderID] = id
		p.mocked[orderID] = entities.PaymentStatusPending
		p.mu.Unlock()
		log.Printf("[pix][mercadopago] mock generate success order_id=%s provider_payment_id=%d", orderID, id)
		return entities.PixCharge{
			PixCode:           code,
			QRCodeBase64:      base64.StdEncoding.EncodeToString([]byte(code)),
			ExpiresAt:         expiresAt,
			Amount:            amount,
			ProviderPaymentID: strconv.Itoa(id),
		}, nil
	}

	if p.client == nil {
		log.Printf("[pix][mercadopago] gateway not configured")
		return entities.PixCharge{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[pix][mercadopago] generate start order_id=%s amount=%s", orderID, amount.StringFixed(2))

	resp, err := p.client.Create(ctx, payment.Request{
		TransactionAmount: amount.InexactFloat64(),
		PaymentMethodID:   pixPaymentMethodID,
		Description:       "Pedido " + orderID,
		ExternalReference: orderID,
		DateOfExpiration:  &expiresAt,
		Payer:             &payment.PayerRequest{Email: p.payerEmail},
	})
	if err != nil {
		log.Printf("[pix][mercadopago] sdk create failed order_id=%s err=%v", orderID, err)
		return entities.PixCharge{}, fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
	}

	p.mu.Lock()
	p.payments[orderID] = resp.ID
	p.mu.Unlock()

	charge := entities.PixCharge{
		PixCode:           resp.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64:      resp.PointOfInteraction.TransactionData.QRCodeBase64,
		ExpiresAt:         expiresAt,
		Amount:            decimal.NewFromFloat(resp.TransactionAmount),
		ProviderPaymentID: strconv.Itoa(resp.ID),
	}
	if !resp.DateOfExpiration.IsZero() {
		charge.ExpiresAt = resp.DateOfExpiration
	}
	log.Printf("[pix][mercadopago] generate success order_id=%s provider_payment_id=%d provider_status=%s", orderID, resp.ID, resp.Status)
	return charge, nil
}

func (p *MercadoPagoPixProvider) GetPixStatus(ctx context.Context, _ string, orderID string) (entities.PaymentStatus, error) {
	if p != nil && p.mockMode {
		p.mu.Lock()
		defer p.mu.Unlock()
		status, ok := p.mocked[orderID]
		if !ok {
			return "", errPaymentNotFound(orderID)
		}
		return status, nil
	}

	if p == nil || p.client == nil {
		return "", ErrMercadoPagoGatewayNotConfigured
	}
	id, ok := p.paymentID(orderID)
	if !ok {
		// Payments created before a restart are only known to Mercado Pago.
		found, err := p.searchByOrder(ctx, orderID)
		if err != nil {
			return "", err
		}
		return mapProviderStatus(found.Status), nil
	}
	resp, err := p.client.Get(ctx, id)
	if err != nil {
		log.Printf("[pix][mercadopago] sdk get failed order_id=%s provider_payment_id=%d err=%v", orderID, id, err)
		return "", fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
	}
	return mapProviderStatus(resp.Status), nil
}

// searchByOrder finds the newest payment whose external reference is the
// order id and remembers its id for the next status checks.
func (p *MercadoPagoPixProvider) searchByOrder(ctx context.Context, orderID string) (payment.Response, error) {
	log.Printf("[pix][mercadopago] searching payment by external reference order_id=%s", orderID)
	resp, err := p.client.Search(ctx, payment.SearchRequest{
		Limit: 10,
		Filters: map[string]string{
			"external_reference": orderID,
			"sort":               "date_created",
			"criteria":           "desc",
		},
	})
	if err != nil {
		log.Printf("[pix][mercadopago] sdk search failed order_id=%s err=%v", orderID, err)
		return payment.Response{}, fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
	}

	var newest *payment.Response
	for i := range resp.Results {
		r := &resp.Results[i]
		if r.ExternalReference != orderID {
			continue
		}
		if newest == nil || r.DateCreated.After(newest.DateCreated) {
			newest = r
		}
	}
	if newest == nil {
		return payment.Response{}, errPaymentNotFound(orderID)
	}

	p.mu.Lock()
	p.payments[orderID] = newest.ID
	p.mu.Unlock()
	log.Printf("[pix][mercadopago] payment found by external reference order_id=%s provider_payment_id=%d", orderID, newest.ID)
	return *newest, nil
}

// ConfirmPix succeeds only when Mercado Pago already reports the payment as
// approved. In mock mode it approves the payment.
func (p *MercadoPagoPixProvider) ConfirmPix(ctx context.Context, token, orderID string) error {
	if p != nil && p.mockMode {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.mocked[orderID]; !ok {
			return errPaymentNotFound(orderID)
		}
		p.mocked[orderID] = entities.PaymentStatusApproved
		log.Printf("[pix][mercadopago] mock confirm success order_id=%s", orderID)
		return nil
	}

	status, err := p.GetPixStatus(ctx, token, orderID)
	if err != nil {
		return err
	}
	if status != entities.PaymentStatusApproved {
		log.Printf("[pix][mercadopago] confirm refused order_id=%s provider_status=%s", orderID, status)
		return &interfaces.BackendError{StatusCode: http.StatusConflict, Message: msgNotIdentified}
	}
	return nil
}

func (p *MercadoPagoPixProvider) paymentID(orderID string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.payments[orderID]
	return id, ok
}

func errPaymentNotFound(orderID string) error {
	return &interfaces.BackendError{StatusCode: http.StatusNotFound, Message: "no PIX payment for order " + orderID}
}

func mapProviderStatus(raw string) entities.PaymentStatus {
	switch strings.ToLower(raw) {
	case "approved":
		return entities.PaymentStatusApproved
	case "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusCancelled
	case "rejected":
		return entities.PaymentStatusRejected
	default:
		// pending, in_process, authorized, in_mediation
		return entities.PaymentStatusPending
	}
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
