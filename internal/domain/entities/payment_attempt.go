package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAttempt is the ledger record of one PIX session.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (order_id-index): order_id
//
// The ledger is an audit trail only. The storefront backend stays the source
// of truth for payment status.

type PaymentAttempt struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     PaymentStatus   `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
}

// PaymentSessionEvent is published when a session reaches a terminal status.
type PaymentSessionEvent struct {
	EventID    string          `json:"event_id"`
	AttemptID  string          `json:"attempt_id"`
	OrderID    string          `json:"order_id"`
	Status     PaymentStatus   `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
