package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
)

// RequestConfirmation opens the "I already paid" prompt. It is the first of
// the two steps required before Confirm calls the backend.
func (s *PixSession) RequestConfirmation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.session.Status != entities.PaymentStatusPending {
		return ErrSessionClosed
	}
	s.prompt = true
	s.notice = ""
	s.publishLocked()
	return nil
}

// DismissConfirmation closes the prompt without contacting the backend.
func (s *PixSession) DismissConfirmation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.prompt {
		return
	}
	s.prompt = false
	s.publishLocked()
}

// Confirm asserts the payment through the backend confirm endpoint. The
// session becomes approved only after the backend acknowledged it; on
// failure it stays pending and the error is surfaced as a notice.
func (s *PixSession) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped || s.session.Status != entities.PaymentStatusPending {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.prompt {
		s.mu.Unlock()
		return ErrConfirmationNotRequested
	}
	s.prompt = false
	s.notice = ""
	s.publishLocked()
	orderID := s.session.OrderID
	token := s.token
	s.mu.Unlock()

	log.Printf("[pix][gate] manual confirmation start order_id=%s", orderID)
	if err := s.provider.ConfirmPix(ctx, token, orderID); err != nil {
		log.Printf("[pix][gate] manual confirmation failed order_id=%s err=%v", orderID, err)
		s.mu.Lock()
		if !s.stopped {
			s.notice = confirmNotice(err)
			s.publishLocked()
		}
		s.mu.Unlock()
		if errors.Is(err, interfaces.ErrBackendUnauthorized) {
			return ErrReauthenticate
		}
		return fmt.Errorf("%w: %w", ErrManualConfirmationFailed, err)
	}

	if !s.finish(entities.PaymentStatusApproved, ReasonManual) {
		// Another trigger won while the request was in flight.
		if s.Status() == entities.PaymentStatusApproved {
			return nil
		}
		return ErrSessionClosed
	}
	return nil
}

func confirmNotice(err error) string {
	var be *interfaces.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return msgConfirmFailed
}
