package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RenderKind is the screen the UI layer must show for a session.
type RenderKind string

const (
	RenderLoading   RenderKind = "loading"
	RenderPending   RenderKind = "pending"
	RenderApproved  RenderKind = "approved"
	RenderExpired   RenderKind = "expired"
	RenderCancelled RenderKind = "cancelled"
	RenderRejected  RenderKind = "rejected"
	RenderError     RenderKind = "error"
)

// RenderState is the snapshot handed to the UI layer. Every terminal status
// has exactly one corresponding kind.
type RenderState struct {
	Kind               RenderKind      `json:"kind"`
	OrderID            string          `json:"order_id"`
	Amount             decimal.Decimal `json:"amount"`
	PixCode            string          `json:"pix_code,omitempty"`
	QRImage            string          `json:"qr_image,omitempty"`
	RemainingSeconds   int             `json:"remaining_seconds"`
	Remaining          string          `json:"remaining"`
	ConfirmationPrompt bool            `json:"confirmation_prompt"`
	Notice             string          `json:"notice,omitempty"`
	Message            string          `json:"message,omitempty"`
}

// RenderKindFor maps a payment status to its screen.
func RenderKindFor(s PaymentStatus) RenderKind {
	switch s {
	case PaymentStatusPending:
		return RenderPending
	case PaymentStatusApproved:
		return RenderApproved
	case PaymentStatusExpired:
		return RenderExpired
	case PaymentStatusCancelled:
		return RenderCancelled
	case PaymentStatusRejected:
		return RenderRejected
	case PaymentStatusError:
		return RenderError
	}
	return RenderLoading
}

// IsFinal reports whether the state belongs to a terminal screen.
func (r RenderState) IsFinal() bool {
	return r.Kind != RenderLoading && r.Kind != RenderPending
}

// FormatRemaining renders seconds as mm:ss. Negative values render as 00:00.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
