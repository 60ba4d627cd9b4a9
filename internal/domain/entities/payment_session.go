package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle of a PIX payment attempt.
//
// Domain notes:
//   - pending is the only non-terminal status.
//   - approved, cancelled and rejected are reported by the backend.
//   - expired is reached locally when the countdown ends.
//   - error is local-only: no PIX payload could be obtained for the order.

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusError     PaymentStatus = "error"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusExpired, PaymentStatusCancelled, PaymentStatusRejected, PaymentStatusError:
		return true
	}
	return false
}

// ParseRemoteStatus maps a backend paymentStatus value. Only statuses the
// backend is allowed to report are accepted; anything else returns false.
func ParseRemoteStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(raw) {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusCancelled, PaymentStatusRejected:
		return PaymentStatus(raw), true
	case "canceled":
		return PaymentStatusCancelled, true
	}
	return "", false
}

// PaymentSession is the client-side projection of one PIX payment attempt.
//
// The backend order/payment record is the source of truth; a session is
// owned by a single controller and discarded once its terminal state has
// been acted upon. OrderID, Amount, PixCode, QRImage and ExpiresAt never
// change after creation.

type PaymentSession struct {
	OrderID           string          `json:"order_id"`
	Amount            decimal.Decimal `json:"amount"`
	PixCode           string          `json:"pix_code,omitempty"`
	QRImage           string          `json:"qr_image,omitempty"`
	ExpiresAt         time.Time       `json:"expires_at,omitempty"`
	ProviderPaymentID string          `json:"provider_payment_id,omitempty"`
	Status            PaymentStatus   `json:"status"`
}

// HasExpiry reports whether the backend supplied an expiration timestamp.
func (s PaymentSession) HasExpiry() bool {
	return !s.ExpiresAt.IsZero()
}
