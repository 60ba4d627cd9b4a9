package usecase

import (
	"context"
	"time"

	"cervejaria_storefront/internal/domain/entities"
)

// runCountdown decrements the remaining seconds every TickInterval and
// expires the session when it reaches zero.
func (s *PixSession) runCountdown(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.tick(ctx) {
				return nil
			}
		}
	}
}

// tick returns true when the countdown must stop.
func (s *PixSession) tick(ctx context.Context) bool {
	s.mu.Lock()
	if ctx.Err() != nil || s.stopped || s.session.Status != entities.PaymentStatusPending {
		s.mu.Unlock()
		return true
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.publishLocked()
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	s.finish(entities.PaymentStatusExpired, ReasonCountdown)
	return true
}
