package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
	"cervejaria_storefront/pkg/authtoken"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrSessionNotFound  = errors.New("pix session not found")
	ErrSessionForbidden = errors.New("pix session belongs to another customer")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidOrderID   = errors.New("invalid order id")
	ErrLedgerDisabled   = errors.New("payment attempt ledger disabled")
)

const (
	defaultRetainTerminal = 10 * time.Minute
	sideEffectTimeout     = 5 * time.Second
)

// IPixSessionUseCase keeps at most one running PIX session per order and
// exposes the operations the UI layer needs.
//
// Every operation takes the caller's bearer token. A session belongs to the
// customer that opened it; another token is only let in after the backend
// lists the order among that token's orders.
type IPixSessionUseCase interface {
	Open(ctx context.Context, token string, order entities.Order) (entities.RenderState, error)
	Reopen(ctx context.Context, token string, orderID string) (entities.RenderState, error)
	Snapshot(ctx context.Context, token string, orderID string) (entities.RenderState, error)
	Subscribe(ctx context.Context, token string, orderID string) (<-chan entities.RenderState, func(), error)
	RequestConfirmation(ctx context.Context, token string, orderID string) (entities.RenderState, error)
	DismissConfirmation(ctx context.Context, token string, orderID string) (entities.RenderState, error)
	Confirm(ctx context.Context, token string, orderID string) (entities.RenderState, error)
	Close(ctx context.Context, token string, orderID string) error
	Attempts(ctx context.Context, token string, orderID string) ([]entities.PaymentAttempt, error)
}

// PixSessionConfig tunes the sessions opened by PixSessionUseCase.
type PixSessionConfig struct {
	PollInterval   time.Duration
	TickInterval   time.Duration
	FallbackWindow time.Duration
	// RetainTerminal is how long a finished session stays readable.
	RetainTerminal time.Duration
	Now            func() time.Time
}

type PixSessionUseCase struct {
	provider  interfaces.IPixProvider
	orders    interfaces.IOrderBackend
	attempts  interfaces.IPaymentAttemptRepository
	publisher interfaces.IPaymentEventPublisher
	cfg       PixSessionConfig

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*trackedSession

	finished metric.Int64Counter
}

type trackedSession struct {
	session   *PixSession
	attemptID string
	// owner is the token fingerprint of the customer, guarded by mu.
	owner string
}

var _ IPixSessionUseCase = (*PixSessionUseCase)(nil)

// NewPixSessionUseCase wires the PIX provider with the order backend, used
// for order totals and ownership checks, and the optional attempt ledger and
// event publisher; the last two may be nil.
func NewPixSessionUseCase(provider interfaces.IPixProvider, orders interfaces.IOrderBackend, attempts interfaces.IPaymentAttemptRepository, publisher interfaces.IPaymentEventPublisher, cfg PixSessionConfig) *PixSessionUseCase {
	if cfg.RetainTerminal <= 0 {
		cfg.RetainTerminal = defaultRetainTerminal
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	finished, err := otel.Meter("pix-session-usecase").Int64Counter(
		"pix_sessions_finished_total",
		metric.WithDescription("PIX sessions that reached a terminal status"),
	)
	if err != nil {
		log.Printf("[pix][usecase] metric registration failed err=%v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PixSessionUseCase{
		provider:   provider,
		orders:     orders,
		attempts:   attempts,
		publisher:  publisher,
		cfg:        cfg,
		baseCtx:    ctx,
		cancelBase: cancel,
		sessions:   make(map[string]*trackedSession),
		finished:   finished,
	}
}

// Open returns the running or approved session of the order, or creates one
// for an order the caller just placed. The PIX payload comes from the order
// when the backend already produced it, otherwise it is generated for
// order.Total. When generation fails the session is created in the error
// state so the UI can offer the way back to checkout.
func (u *PixSessionUseCase) Open(ctx context.Context, token string, order entities.Order) (entities.RenderState, error) {
	orderID := strings.TrimSpace(order.ID)
	log.Printf("[pix][usecase] open start order_id=%s", orderID)
	if orderID == "" {
		return entities.RenderState{}, ErrInvalidOrderID
	}
	if err := authtoken.Validate(token, u.cfg.Now()); err != nil {
		log.Printf("[pix][usecase] reauthentication required order_id=%s err=%v", orderID, err)
		return entities.RenderState{}, ErrReauthenticate
	}
	if st, ok, err := u.reuse(ctx, token, orderID); err != nil || ok {
		return st, err
	}
	if u.provider == nil {
		return entities.RenderState{}, errors.New("pix provider not configured")
	}

	ctx, span := otel.Tracer("pix-session-usecase").Start(ctx, "pix.open_session")
	defer span.End()
	span.SetAttributes(attribute.String("pix.order_id", orderID))

	owner := authtoken.Fingerprint(token)
	var charge entities.PixCharge
	if order.Pix != nil && order.Pix.PixCode != "" {
		charge = *order.Pix
		log.Printf("[pix][usecase] using pix payload from order order_id=%s", orderID)
	} else {
		generated, err := u.provider.GeneratePix(ctx, token, orderID, order.Total)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pix generation failed")
			log.Printf("[pix][usecase] pix generation failed order_id=%s err=%v", orderID, err)
			if errors.Is(err, interfaces.ErrBackendUnauthorized) {
				return entities.RenderState{}, ErrReauthenticate
			}
			return u.registerFailed(orderID, owner, order.Total, generationMessage(err))
		}
		charge = generated
	}

	amount := charge.Amount
	if !amount.GreaterThan(decimal.Zero) {
		amount = order.Total
	}
	attemptID := uuid.NewString()
	session, err := NewPixSession(u.provider, token, entities.PaymentSession{
		OrderID:           orderID,
		Amount:            amount,
		PixCode:           charge.PixCode,
		QRImage:           charge.QRCodeBase64,
		ExpiresAt:         charge.ExpiresAt,
		ProviderPaymentID: charge.ProviderPaymentID,
	}, PixSessionOptions{
		PollInterval:   u.cfg.PollInterval,
		TickInterval:   u.cfg.TickInterval,
		FallbackWindow: u.cfg.FallbackWindow,
		Now:            u.cfg.Now,
		OnSuccess: func(s entities.PaymentSession) {
			log.Printf("[pix][usecase] payment approved order_id=%s amount=%s", s.OrderID, s.Amount.StringFixed(2))
		},
		OnTerminal: func(s entities.PaymentSession, reason string) {
			u.onTerminal(attemptID, s, reason)
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid pix payload")
		log.Printf("[pix][usecase] invalid pix payload order_id=%s err=%v", orderID, err)
		return u.registerFailed(orderID, owner, amount, msgPixGenerateError)
	}

	u.mu.Lock()
	if existing, ok := u.sessions[orderID]; ok && reusable(existing.session) {
		// A concurrent Open won the race; keep its session.
		sameOwner := existing.owner == owner
		u.mu.Unlock()
		if !sameOwner {
			return entities.RenderState{}, ErrSessionForbidden
		}
		return existing.session.Snapshot(), nil
	}
	if existing, ok := u.sessions[orderID]; ok {
		existing.session.Stop()
	}
	u.sessions[orderID] = &trackedSession{session: session, attemptID: attemptID, owner: owner}
	u.mu.Unlock()

	u.recordAttempt(attemptID, session.Session())
	if err := session.Start(u.baseCtx); err != nil {
		log.Printf("[pix][usecase] session start failed order_id=%s err=%v", orderID, err)
	}
	log.Printf("[pix][usecase] open success order_id=%s attempt_id=%s", orderID, attemptID)
	return session.Snapshot(), nil
}

func (u *PixSessionUseCase) registerFailed(orderID, owner string, amount decimal.Decimal, message string) (entities.RenderState, error) {
	failed := NewFailedPixSession(orderID, amount, message)
	attemptID := uuid.NewString()

	u.mu.Lock()
	if existing, ok := u.sessions[orderID]; ok && reusable(existing.session) {
		sameOwner := existing.owner == owner
		u.mu.Unlock()
		if !sameOwner {
			return entities.RenderState{}, ErrSessionForbidden
		}
		return existing.session.Snapshot(), nil
	}
	u.sessions[orderID] = &trackedSession{session: failed, attemptID: attemptID, owner: owner}
	u.mu.Unlock()

	u.recordAttempt(attemptID, failed.Session())
	u.onTerminal(attemptID, failed.Session(), ReasonGenerate)
	return failed.Snapshot(), nil
}

// Reopen is the retry path: it returns the running or approved session of
// the order, or opens a new one charged with the order total the backend
// reports for the caller. The amount is never taken from the client.
func (u *PixSessionUseCase) Reopen(ctx context.Context, token, orderID string) (entities.RenderState, error) {
	orderID = strings.TrimSpace(orderID)
	log.Printf("[pix][usecase] reopen start order_id=%s", orderID)
	if orderID == "" {
		return entities.RenderState{}, ErrInvalidOrderID
	}
	if err := authtoken.Validate(token, u.cfg.Now()); err != nil {
		log.Printf("[pix][usecase] reauthentication required order_id=%s err=%v", orderID, err)
		return entities.RenderState{}, ErrReauthenticate
	}
	if st, ok, err := u.reuse(ctx, token, orderID); err != nil || ok {
		return st, err
	}
	if u.orders == nil {
		return entities.RenderState{}, errors.New("order backend not configured")
	}

	order, err := u.orders.GetOrder(ctx, token, orderID)
	if err != nil {
		log.Printf("[pix][usecase] order lookup failed order_id=%s err=%v", orderID, err)
		return entities.RenderState{}, mapOrderLookupError(err)
	}
	if !order.Total.GreaterThan(decimal.Zero) {
		log.Printf("[pix][usecase] backend returned non-positive total order_id=%s total=%s", orderID, order.Total)
		return entities.RenderState{}, ErrInvalidOrderTotal
	}
	// A payload stored with the order may belong to the attempt being retried.
	order.Pix = nil
	return u.Open(ctx, token, order)
}

func mapOrderLookupError(err error) error {
	switch {
	case errors.Is(err, interfaces.ErrOrderNotFound):
		return ErrOrderNotFound
	case errors.Is(err, interfaces.ErrBackendUnauthorized):
		return ErrReauthenticate
	}
	return fmt.Errorf("%w: %w", ErrCheckoutUnavailable, err)
}

// reusable sessions are returned by Open instead of starting a new attempt.
// Only expired, error, cancelled and rejected sessions may be replaced.
func reusable(s *PixSession) bool {
	return s.Active() || s.Status() == entities.PaymentStatusApproved
}

func (u *PixSessionUseCase) reuse(ctx context.Context, token, orderID string) (entities.RenderState, bool, error) {
	u.mu.Lock()
	t, ok := u.sessions[orderID]
	u.mu.Unlock()
	if !ok || !reusable(t.session) {
		return entities.RenderState{}, false, nil
	}
	if err := u.checkOwner(ctx, token, orderID, t); err != nil {
		return entities.RenderState{}, false, err
	}
	log.Printf("[pix][usecase] reusing session order_id=%s status=%s", orderID, t.session.Status())
	return t.session.Snapshot(), true, nil
}

// checkOwner lets the session owner through and refreshes the token the
// session calls the backend with. Any other token must own the order
// according to the backend, and then becomes the owner.
func (u *PixSessionUseCase) checkOwner(ctx context.Context, token, orderID string, t *trackedSession) error {
	fp := authtoken.Fingerprint(token)
	u.mu.Lock()
	owner := t.owner
	u.mu.Unlock()

	if owner != fp {
		if err := u.verifyOrderOwner(ctx, token, orderID); err != nil {
			log.Printf("[pix][usecase] ownership check failed order_id=%s err=%v", orderID, err)
			return err
		}
		u.mu.Lock()
		t.owner = fp
		u.mu.Unlock()
		log.Printf("[pix][usecase] session rebound to new token order_id=%s", orderID)
	}
	t.session.SetToken(token)
	return nil
}

func (u *PixSessionUseCase) verifyOrderOwner(ctx context.Context, token, orderID string) error {
	if u.orders == nil {
		return ErrSessionForbidden
	}
	if _, err := u.orders.GetOrder(ctx, token, orderID); err != nil {
		if errors.Is(err, interfaces.ErrOrderNotFound) {
			return ErrSessionForbidden
		}
		return mapOrderLookupError(err)
	}
	return nil
}

func generationMessage(err error) string {
	var be *interfaces.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return msgPixGenerateError
}

// authorize resolves the session of the order for the caller.
func (u *PixSessionUseCase) authorize(ctx context.Context, token, orderID string) (*trackedSession, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if err := authtoken.Validate(token, u.cfg.Now()); err != nil {
		log.Printf("[pix][usecase] reauthentication required order_id=%s err=%v", orderID, err)
		return nil, ErrReauthenticate
	}
	u.mu.Lock()
	t, ok := u.sessions[orderID]
	u.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := u.checkOwner(ctx, token, orderID, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *PixSessionUseCase) Snapshot(ctx context.Context, token, orderID string) (entities.RenderState, error) {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return entities.RenderState{}, err
	}
	return t.session.Snapshot(), nil
}

func (u *PixSessionUseCase) Subscribe(ctx context.Context, token, orderID string) (<-chan entities.RenderState, func(), error) {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return nil, nil, err
	}
	ch, unsubscribe := t.session.Subscribe()
	return ch, unsubscribe, nil
}

func (u *PixSessionUseCase) RequestConfirmation(ctx context.Context, token, orderID string) (entities.RenderState, error) {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return entities.RenderState{}, err
	}
	if err := t.session.RequestConfirmation(); err != nil {
		return t.session.Snapshot(), err
	}
	return t.session.Snapshot(), nil
}

func (u *PixSessionUseCase) DismissConfirmation(ctx context.Context, token, orderID string) (entities.RenderState, error) {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return entities.RenderState{}, err
	}
	t.session.DismissConfirmation()
	return t.session.Snapshot(), nil
}

// Confirm calls the backend confirm endpoint with the caller's token.
func (u *PixSessionUseCase) Confirm(ctx context.Context, token, orderID string) (entities.RenderState, error) {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return entities.RenderState{}, err
	}
	err = t.session.Confirm(ctx)
	return t.session.Snapshot(), err
}

// Close stops the session of the order and forgets it. It is the teardown
// path for a UI that navigates away; closing twice returns
// ErrSessionNotFound and has no other effect. A session closed while
// pending is recorded in the ledger with the closed reason.
func (u *PixSessionUseCase) Close(ctx context.Context, token, orderID string) error {
	t, err := u.authorize(ctx, token, orderID)
	if err != nil {
		return err
	}
	orderID = strings.TrimSpace(orderID)
	u.mu.Lock()
	current, ok := u.sessions[orderID]
	if ok && current == t {
		delete(u.sessions, orderID)
	}
	u.mu.Unlock()
	if !ok || current != t {
		return ErrSessionNotFound
	}

	t.session.Stop()
	// After Stop the status can no longer change: still pending means no
	// terminal transition was recorded for this attempt.
	status := t.session.Status()
	if status == entities.PaymentStatusPending && u.attempts != nil {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if _, err := u.attempts.MarkFinished(ctx, t.attemptID, status, ReasonClosed); err != nil {
			log.Printf("[pix][usecase] attempt ledger update failed attempt_id=%s order_id=%s err=%v", t.attemptID, orderID, err)
		}
	}
	log.Printf("[pix][usecase] closed order_id=%s status=%s", orderID, status)
	return nil
}

// Attempts lists the ledger records of the order, newest first.
func (u *PixSessionUseCase) Attempts(ctx context.Context, token, orderID string) ([]entities.PaymentAttempt, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if err := authtoken.Validate(token, u.cfg.Now()); err != nil {
		return nil, ErrReauthenticate
	}
	u.mu.Lock()
	t, tracked := u.sessions[orderID]
	u.mu.Unlock()
	if tracked {
		err := u.checkOwner(ctx, token, orderID, t)
		if err != nil {
			return nil, err
		}
	} else if err := u.verifyOrderOwner(ctx, token, orderID); err != nil {
		log.Printf("[pix][usecase] ownership check failed order_id=%s err=%v", orderID, err)
		return nil, err
	}
	if u.attempts == nil {
		return nil, ErrLedgerDisabled
	}
	list, err := u.attempts.ListByOrderID(ctx, orderID)
	if err != nil {
		log.Printf("[pix][usecase] attempt ledger list failed order_id=%s err=%v", orderID, err)
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Shutdown stops every session and waits for their background tasks.
func (u *PixSessionUseCase) Shutdown() {
	u.cancelBase()
	u.mu.Lock()
	all := make([]*PixSession, 0, len(u.sessions))
	for id, t := range u.sessions {
		all = append(all, t.session)
		delete(u.sessions, id)
	}
	u.mu.Unlock()
	for _, s := range all {
		s.Stop()
		s.Wait()
	}
}

func (u *PixSessionUseCase) onTerminal(attemptID string, s entities.PaymentSession, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if u.finished != nil {
		u.finished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", string(s.Status)),
			attribute.String("reason", reason),
		))
	}
	if u.attempts != nil {
		if _, err := u.attempts.MarkFinished(ctx, attemptID, s.Status, reason); err != nil {
			log.Printf("[pix][usecase] attempt ledger update failed attempt_id=%s order_id=%s err=%v", attemptID, s.OrderID, err)
		}
	}
	if u.publisher != nil {
		event := entities.PaymentSessionEvent{
			EventID:    uuid.NewString(),
			AttemptID:  attemptID,
			OrderID:    s.OrderID,
			Status:     s.Status,
			Amount:     s.Amount,
			Reason:     reason,
			OccurredAt: u.cfg.Now().UTC(),
		}
		if err := u.publisher.Publish(ctx, event); err != nil {
			log.Printf("[pix][usecase] event publish failed order_id=%s status=%s err=%v", s.OrderID, s.Status, err)
		}
	}

	time.AfterFunc(u.cfg.RetainTerminal, func() { u.evict(s.OrderID, attemptID) })
}

func (u *PixSessionUseCase) evict(orderID, attemptID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.sessions[orderID]; ok && t.attemptID == attemptID {
		delete(u.sessions, orderID)
	}
}

func (u *PixSessionUseCase) recordAttempt(attemptID string, s entities.PaymentSession) {
	if u.attempts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	_, err := u.attempts.Create(ctx, entities.PaymentAttempt{
		ID:        attemptID,
		OrderID:   s.OrderID,
		Amount:    s.Amount,
		Status:    entities.PaymentStatusPending,
		CreatedAt: u.cfg.Now().UTC(),
	})
	if err != nil {
		log.Printf("[pix][usecase] attempt ledger create failed attempt_id=%s order_id=%s err=%v", attemptID, s.OrderID, err)
	}
}
