package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionClosed               = errors.New("pix session is no longer pending")
	ErrConfirmationNotRequested    = errors.New("manual confirmation was not requested")
	ErrManualConfirmationFailed    = errors.New("manual confirmation failed")
	ErrSessionAlreadyStarted       = errors.New("pix session already started")
	errSessionWithoutPixCode       = errors.New("pix session without pix code")
	errSessionWithNonPositiveValue = errors.New("pix session amount must be positive")
)

const (
	DefaultPollInterval   = 10 * time.Second
	DefaultTickInterval   = time.Second
	DefaultFallbackWindow = 30 * time.Minute
)

// Terminal reasons recorded with the transition.
const (
	ReasonPoll      = "poll"
	ReasonCountdown = "countdown"
	ReasonManual    = "manual"
	ReasonGenerate  = "generate"
	ReasonClosed    = "closed"
)

const (
	msgExpired          = "The time to complete the payment has expired. Please generate a new code."
	msgCancelled        = "The payment was cancelled."
	msgRejected         = "The payment was rejected."
	msgConfirmFailed    = "Could not confirm the payment"
	msgPixGenerateError = "Could not generate the PIX payment"
)

// PixSessionOptions configures the background tasks and the outbound
// callbacks of a PixSession. Zero values fall back to the defaults above.
type PixSessionOptions struct {
	PollInterval   time.Duration
	TickInterval   time.Duration
	FallbackWindow time.Duration
	Now            func() time.Time

	// OnSuccess runs once, after the session reached approved.
	OnSuccess func(entities.PaymentSession)
	// OnTerminal runs once for every terminal transition, approved included.
	OnTerminal func(session entities.PaymentSession, reason string)
}

func (o PixSessionOptions) withDefaults() PixSessionOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.FallbackWindow <= 0 {
		o.FallbackWindow = DefaultFallbackWindow
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// PixSession owns the lifecycle of one PIX payment attempt.
//
// Status is written only by finish, which moves the session out of pending at
// most once. Poller, countdown and manual confirmation all go through it, so
// the first trigger wins and every later one is a no-op. Reaching a terminal
// status or calling Stop cancels both background tasks.
type PixSession struct {
	provider interfaces.IPixProvider
	token    string
	opts     PixSessionOptions

	mu          sync.Mutex
	session     entities.PaymentSession
	remaining   int
	reason      string
	message     string
	prompt      bool
	notice      string
	started     bool
	stopped     bool
	subscribers map[int]chan entities.RenderState
	nextSubID   int

	cancel   context.CancelFunc
	group    *errgroup.Group
	done     chan struct{}
	doneOnce sync.Once
}

// NewPixSession builds a pending session for a generated PIX payload. The
// countdown starts from ExpiresAt when present, otherwise from the
// fallback window.
func NewPixSession(provider interfaces.IPixProvider, token string, session entities.PaymentSession, opts PixSessionOptions) (*PixSession, error) {
	if session.PixCode == "" {
		return nil, errSessionWithoutPixCode
	}
	if !session.Amount.GreaterThan(decimal.Zero) {
		return nil, errSessionWithNonPositiveValue
	}
	opts = opts.withDefaults()
	session.Status = entities.PaymentStatusPending

	s := newPixSession(provider, token, session, opts)
	s.remaining = initialRemaining(session, opts)
	return s, nil
}

// NewFailedPixSession builds a session that is already in the error state,
// used when no PIX payload could be obtained for the order.
func NewFailedPixSession(orderID string, amount decimal.Decimal, message string) *PixSession {
	if message == "" {
		message = msgPixGenerateError
	}
	s := newPixSession(nil, "", entities.PaymentSession{
		OrderID: orderID,
		Amount:  amount,
		Status:  entities.PaymentStatusError,
	}, PixSessionOptions{}.withDefaults())
	s.message = message
	s.stopped = true
	s.started = true
	s.closeDone()
	return s
}

func newPixSession(provider interfaces.IPixProvider, token string, session entities.PaymentSession, opts PixSessionOptions) *PixSession {
	return &PixSession{
		provider:    provider,
		token:       token,
		opts:        opts,
		session:     session,
		subscribers: make(map[int]chan entities.RenderState),
		done:        make(chan struct{}),
	}
}

func initialRemaining(session entities.PaymentSession, opts PixSessionOptions) int {
	if !session.HasExpiry() {
		return int(opts.FallbackWindow / time.Second)
	}
	left := session.ExpiresAt.Sub(opts.Now())
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}

// Start launches the status poller and the countdown. The session keeps
// running until a terminal status is reached, Stop is called or parent is
// cancelled.
func (s *PixSession) Start(parent context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrSessionAlreadyStarted
	}
	s.started = true
	if s.stopped || s.session.Status != entities.PaymentStatusPending {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	s.group = g
	expiredAtStart := s.remaining <= 0
	s.publishLocked()
	s.mu.Unlock()

	log.Printf("[pix][session] started order_id=%s amount=%s remaining=%d", s.session.OrderID, s.session.Amount.StringFixed(2), s.remaining)

	if expiredAtStart {
		s.finish(entities.PaymentStatusExpired, ReasonCountdown)
		return nil
	}

	g.Go(func() error { return s.runPoller(gctx) })
	g.Go(func() error { return s.runCountdown(gctx) })

	// Parent cancellation behaves like Stop.
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()
	return nil
}

// finish moves the session from pending to a terminal status. It returns
// false when another transition already won or the session was stopped.
func (s *PixSession) finish(to entities.PaymentStatus, reason string) bool {
	s.mu.Lock()
	if s.stopped || s.session.Status != entities.PaymentStatusPending {
		s.mu.Unlock()
		return false
	}
	s.session.Status = to
	s.reason = reason
	s.prompt = false
	s.stopped = true
	switch to {
	case entities.PaymentStatusExpired:
		s.message = msgExpired
	case entities.PaymentStatusCancelled:
		s.message = msgCancelled
	case entities.PaymentStatusRejected:
		s.message = msgRejected
	}
	snapshot := s.session
	s.publishLocked()
	s.closeSubscribersLocked()
	s.mu.Unlock()

	s.shutdown()
	log.Printf("[pix][session] finished order_id=%s status=%s reason=%s", snapshot.OrderID, snapshot.Status, reason)

	if to == entities.PaymentStatusApproved && s.opts.OnSuccess != nil {
		s.opts.OnSuccess(snapshot)
	}
	if s.opts.OnTerminal != nil {
		s.opts.OnTerminal(snapshot, reason)
	}
	return true
}

// Stop cancels the poller and the countdown. A pending session stays pending
// but can no longer change. Calling Stop more than once is a no-op.
func (s *PixSession) Stop() {
	s.mu.Lock()
	wasStopped := s.stopped
	s.stopped = true
	s.prompt = false
	if !wasStopped {
		s.closeSubscribersLocked()
	}
	s.mu.Unlock()

	if !wasStopped {
		log.Printf("[pix][session] stopped order_id=%s", s.session.OrderID)
	}
	s.shutdown()
}

func (s *PixSession) shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.closeDone()
}

func (s *PixSession) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Wait blocks until the background tasks have returned.
func (s *PixSession) Wait() {
	s.mu.Lock()
	g := s.group
	s.mu.Unlock()
	if g != nil {
		_ = g.Wait()
	}
}

// Done is closed once the session stopped, terminal or not.
func (s *PixSession) Done() <-chan struct{} {
	return s.done
}

// Session returns a copy of the underlying payment session.
func (s *PixSession) Session() entities.PaymentSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Status returns the current payment status.
func (s *PixSession) Status() entities.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Status
}

// Active reports whether the session is pending and still running.
func (s *PixSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && s.session.Status == entities.PaymentStatusPending
}

// Reason is the trigger of the terminal transition, empty while pending.
func (s *PixSession) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// SetToken replaces the bearer token used by the poller and by Confirm, so
// the session keeps calling the backend with the latest credentials of its
// owner.
func (s *PixSession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *PixSession) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// RemainingSeconds is the current countdown value.
func (s *PixSession) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Snapshot returns the render state for the UI layer.
func (s *PixSession) Snapshot() entities.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

// Subscribe returns a channel receiving the latest render state after every
// change. Slow readers only miss intermediate states, never the last one.
// The channel is closed when the session stops; unsubscribe releases it
// earlier.
func (s *PixSession) Subscribe() (<-chan entities.RenderState, func()) {
	ch := make(chan entities.RenderState, 1)

	s.mu.Lock()
	ch <- s.renderLocked()
	if s.stopped {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

func (s *PixSession) renderLocked() entities.RenderState {
	kind := entities.RenderKindFor(s.session.Status)
	if kind == entities.RenderPending && !s.started {
		kind = entities.RenderLoading
	}
	st := entities.RenderState{
		Kind:               kind,
		OrderID:            s.session.OrderID,
		Amount:             s.session.Amount,
		RemainingSeconds:   s.remaining,
		Remaining:          entities.FormatRemaining(s.remaining),
		ConfirmationPrompt: s.prompt,
		Notice:             s.notice,
		Message:            s.message,
	}
	if kind == entities.RenderPending {
		st.PixCode = s.session.PixCode
		st.QRImage = s.session.QRImage
	}
	return st
}

func (s *PixSession) publishLocked() {
	st := s.renderLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

func (s *PixSession) closeSubscribersLocked() {
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
