package repository

import (
	"os"
	"time"

	"cervejaria_storefront/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func tableNameFromEnv() string {
	if v := os.Getenv("PAYMENT_ATTEMPTS_TABLE"); v != "" {
		return v
	}
	return defaultPaymentAttemptsTableName
}

// Amounts are stored as fixed two-decimal strings and times as RFC3339 UTC
// so that items stay readable in the console.
func toPaymentAttemptItem(a entities.PaymentAttempt) paymentAttemptItem {
	it := paymentAttemptItem{
		ID:        a.ID,
		OrderID:   a.OrderID,
		Amount:    a.Amount.StringFixed(2),
		Status:    string(a.Status),
		Reason:    a.Reason,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !a.FinishedAt.IsZero() {
		it.FinishedAt = a.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	return it
}

func fromPaymentAttemptItem(it paymentAttemptItem) entities.PaymentAttempt {
	created, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	finished, _ := time.Parse(time.RFC3339Nano, it.FinishedAt)
	amount, _ := decimal.NewFromString(it.Amount)
	return entities.PaymentAttempt{
		ID:         it.ID,
		OrderID:    it.OrderID,
		Amount:     amount,
		Status:     entities.PaymentStatus(it.Status),
		Reason:     it.Reason,
		CreatedAt:  created,
		FinishedAt: finished,
	}
}
