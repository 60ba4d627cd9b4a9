package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
)

// runPoller queries the payment status every PollInterval while the
// session is pending. Failures are logged and retried on the next tick:
// the countdown and the manual gate remain available meanwhile.
func (s *PixSession) runPoller(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.pollOnce(ctx) {
				return nil
			}
		}
	}
}

// pollOnce returns true when the session left pending.
func (s *PixSession) pollOnce(ctx context.Context) bool {
	orderID := s.session.OrderID
	status, err := s.provider.GetPixStatus(ctx, s.currentToken(), orderID)
	if ctx.Err() != nil {
		log.Printf("[pix][poller] discarding result after cancellation order_id=%s", orderID)
		return true
	}
	if err != nil {
		if errors.Is(err, interfaces.ErrBackendUnauthorized) {
			log.Printf("[pix][poller] status check unauthorized order_id=%s", orderID)
		} else {
			log.Printf("[pix][poller] status check failed order_id=%s err=%v", orderID, err)
		}
		return false
	}

	switch status {
	case entities.PaymentStatusApproved, entities.PaymentStatusCancelled, entities.PaymentStatusRejected:
		s.finish(status, ReasonPoll)
		return true
	case entities.PaymentStatusPending:
		log.Printf("[pix][poller] still pending order_id=%s", orderID)
	default:
		log.Printf("[pix][poller] ignoring status order_id=%s status=%s", orderID, status)
	}
	return !s.Active()
}
