package entities

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// ShippingFee is the flat delivery fee the storefront shows next to the cart.
var ShippingFee = decimal.RequireFromString("0.01")

// CartItem is one line of the customer's cart as sent to order creation.
type CartItem struct {
	ID        string          `json:"_id"`
	Name      string          `json:"nome,omitempty"`
	Kind      string          `json:"tipo,omitempty"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imagem,omitempty"`
}

// Subtotal is UnitPrice times Quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LocalTotal sums the cart plus ShippingFee. It is advisory only: the
// payment amount always comes from the backend.
func LocalTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Add(ShippingFee)
}

// ShippingAddress is the delivery address collected at checkout.
//
// JSON names follow the storefront backend contract.
type ShippingAddress struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"address"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// MissingFields lists the required fields that are blank, in form order.
func (a ShippingAddress) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"cep", a.PostalCode},
		{"address", a.Street},
		{"number", a.Number},
		{"city", a.City},
		{"state", a.State},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Normalized trims every field, formats the CEP as 00000-000 and uppercases
// the state code.
func (a ShippingAddress) Normalized() ShippingAddress {
	out := ShippingAddress{
		PostalCode:   formatPostalCode(a.PostalCode),
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Complement:   strings.TrimSpace(a.Complement),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
		State:        strings.ToUpper(strings.TrimSpace(a.State)),
	}
	return out
}

func formatPostalCode(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	if len(digits) > 5 {
		return digits[:5] + "-" + digits[5:]
	}
	return digits
}

// Order is the result of order creation. Total is computed by the backend.
// Pix is set when the backend returns the PIX payload together with the
// order.
type Order struct {
	ID    string          `json:"order_id"`
	Total decimal.Decimal `json:"total"`
	Pix   *PixCharge      `json:"pix,omitempty"`
}

// PixCharge is the PIX payload produced for an order.
type PixCharge struct {
	PixCode           string          `json:"pix_code"`
	QRCodeBase64      string          `json:"qr_code_base64,omitempty"`
	ExpiresAt         time.Time       `json:"expires_at,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	ProviderPaymentID string          `json:"provider_payment_id,omitempty"`
}
