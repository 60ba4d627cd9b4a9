package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
	mock_interfaces "cervejaria_storefront/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pixUseCaseFixture struct {
	provider  *mock_interfaces.MockIPixProvider
	orders    *mock_interfaces.MockIOrderBackend
	attempts  *mock_interfaces.MockIPaymentAttemptRepository
	publisher *mock_interfaces.MockIPaymentEventPublisher
	uc        *PixSessionUseCase
}

func newPixUseCaseFixture(t *testing.T, poll time.Duration) *pixUseCaseFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &pixUseCaseFixture{
		provider:  mock_interfaces.NewMockIPixProvider(ctrl),
		orders:    mock_interfaces.NewMockIOrderBackend(ctrl),
		attempts:  mock_interfaces.NewMockIPaymentAttemptRepository(ctrl),
		publisher: mock_interfaces.NewMockIPaymentEventPublisher(ctrl),
	}
	f.uc = NewPixSessionUseCase(f.provider, f.orders, f.attempts, f.publisher, PixSessionConfig{
		PollInterval: poll,
		TickInterval: time.Hour,
		Now:          func() time.Time { return fixedNow },
	})
	t.Cleanup(f.uc.Shutdown)
	return f
}

func orderWithPix() entities.Order {
	return entities.Order{
		ID:    "order-1",
		Total: decimal.RequireFromString("64.31"),
		Pix: &entities.PixCharge{
			PixCode:      "000201pix",
			QRCodeBase64: "iVBORw0KGgo=",
			ExpiresAt:    fixedNow.Add(15 * time.Minute),
		},
	}
}

func TestPixSessionUseCase_Open_Validations(t *testing.T) {
	t.Run("empty order id", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		_, err := f.uc.Open(context.Background(), "tok", entities.Order{ID: " "})
		if !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		_, err := f.uc.Open(context.Background(), "", orderWithPix())
		if !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
	})

	t.Run("provider not configured", func(t *testing.T) {
		uc := NewPixSessionUseCase(nil, nil, nil, nil, PixSessionConfig{})
		defer uc.Shutdown()
		_, err := uc.Open(context.Background(), "tok", orderWithPix())
		if err == nil || err.Error() != "pix provider not configured" {
			t.Fatalf("expected provider not configured error, got %v", err)
		}
	})
}

func TestPixSessionUseCase_Open(t *testing.T) {
	t.Run("uses the payload from the order", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a entities.PaymentAttempt) (entities.PaymentAttempt, error) {
				assert.Equal(t, "order-1", a.OrderID)
				assert.Equal(t, entities.PaymentStatusPending, a.Status)
				assert.NotEmpty(t, a.ID)
				return a, nil
			},
		)

		st, err := f.uc.Open(context.Background(), "tok", orderWithPix())
		require.NoError(t, err)
		assert.Equal(t, entities.RenderPending, st.Kind)
		assert.Equal(t, "000201pix", st.PixCode)
		assert.Equal(t, "15:00", st.Remaining)
		assert.True(t, st.Amount.Equal(decimal.RequireFromString("64.31")))
	})

	t.Run("generates the payload when the order has none", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		order := entities.Order{ID: "order-2", Total: decimal.RequireFromString("30")}

		f.provider.EXPECT().GeneratePix(gomock.Any(), "tok", "order-2", order.Total).Return(entities.PixCharge{
			PixCode: "000201gen",
			Amount:  decimal.RequireFromString("30.01"),
		}, nil).Times(1)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)

		st, err := f.uc.Open(context.Background(), "tok", order)
		require.NoError(t, err)
		assert.Equal(t, "000201gen", st.PixCode)
		assert.Equal(t, "30:00", st.Remaining)
		assert.True(t, st.Amount.Equal(decimal.RequireFromString("30.01")))

		again, err := f.uc.Open(context.Background(), "tok", order)
		require.NoError(t, err)
		assert.Equal(t, "000201gen", again.PixCode)
	})

	t.Run("generation failure yields the error state", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		order := entities.Order{ID: "order-3", Total: decimal.RequireFromString("12")}

		f.provider.EXPECT().GeneratePix(gomock.Any(), "tok", "order-3", gomock.Any()).Return(entities.PixCharge{}, &interfaces.BackendError{StatusCode: 500, Message: "Erro ao gerar PIX"})
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusError, ReasonGenerate).Return(entities.PaymentAttempt{}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.PaymentSessionEvent) error {
				assert.Equal(t, entities.PaymentStatusError, e.Status)
				assert.Equal(t, "order-3", e.OrderID)
				return nil
			},
		)

		st, err := f.uc.Open(context.Background(), "tok", order)
		require.NoError(t, err)
		assert.Equal(t, entities.RenderError, st.Kind)
		assert.Equal(t, "Erro ao gerar PIX", st.Message)

		snap, err := f.uc.Snapshot(context.Background(), "tok", "order-3")
		require.NoError(t, err)
		assert.Equal(t, entities.RenderError, snap.Kind)
	})

	t.Run("unauthorized generation asks for reauthentication", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.provider.EXPECT().GeneratePix(gomock.Any(), gomock.Any(), "order-4", gomock.Any()).Return(entities.PixCharge{}, &interfaces.BackendError{StatusCode: 401})

		_, err := f.uc.Open(context.Background(), "tok", entities.Order{ID: "order-4", Total: decimal.RequireFromString("5")})
		if !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
		if _, err := f.uc.Snapshot(context.Background(), "tok", "order-4"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestPixSessionUseCase_TerminalSideEffects(t *testing.T) {
	f := newPixUseCaseFixture(t, 5*time.Millisecond)

	var attemptID string
	f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a entities.PaymentAttempt) (entities.PaymentAttempt, error) {
			attemptID = a.ID
			return a, nil
		},
	)
	f.provider.EXPECT().GetPixStatus(gomock.Any(), "tok", "order-1").Return(entities.PaymentStatusApproved, nil)

	finished := make(chan string, 1)
	f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonPoll).DoAndReturn(
		func(_ context.Context, id string, _ entities.PaymentStatus, _ string) (entities.PaymentAttempt, error) {
			finished <- id
			return entities.PaymentAttempt{}, nil
		},
	)
	published := make(chan entities.PaymentSessionEvent, 1)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e entities.PaymentSessionEvent) error {
			published <- e
			return nil
		},
	)

	_, err := f.uc.Open(context.Background(), "tok", orderWithPix())
	require.NoError(t, err)

	select {
	case id := <-finished:
		assert.Equal(t, attemptID, id)
	case <-time.After(2 * time.Second):
		t.Fatalf("attempt was not marked finished")
	}
	select {
	case e := <-published:
		assert.Equal(t, entities.PaymentStatusApproved, e.Status)
		assert.Equal(t, ReasonPoll, e.Reason)
		assert.Equal(t, attemptID, e.AttemptID)
		assert.NotEmpty(t, e.EventID)
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not published")
	}

	st, err := f.uc.Snapshot(context.Background(), "tok", "order-1")
	require.NoError(t, err)
	assert.Equal(t, entities.RenderApproved, st.Kind)
}

func TestPixSessionUseCase_ConfirmationFlow(t *testing.T) {
	f := newPixUseCaseFixture(t, time.Hour)
	f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
	f.provider.EXPECT().ConfirmPix(gomock.Any(), "tok", "order-1").Return(nil)
	f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonManual).Return(entities.PaymentAttempt{}, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := f.uc.Open(context.Background(), "tok", orderWithPix())
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), "tok", "order-1")
	if !errors.Is(err, ErrConfirmationNotRequested) {
		t.Fatalf("expected ErrConfirmationNotRequested, got %v", err)
	}

	st, err := f.uc.RequestConfirmation(context.Background(), "tok", "order-1")
	require.NoError(t, err)
	assert.True(t, st.ConfirmationPrompt)

	st, err = f.uc.DismissConfirmation(context.Background(), "tok", "order-1")
	require.NoError(t, err)
	assert.False(t, st.ConfirmationPrompt)

	_, err = f.uc.RequestConfirmation(context.Background(), "tok", "order-1")
	require.NoError(t, err)
	st, err = f.uc.Confirm(context.Background(), "tok", "order-1")
	require.NoError(t, err)
	assert.Equal(t, entities.RenderApproved, st.Kind)

	_, err = f.uc.RequestConfirmation(context.Background(), "tok", "order-1")
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestPixSessionUseCase_Close(t *testing.T) {
	t.Run("pending session is recorded as closed", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		var attemptID string
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a entities.PaymentAttempt) (entities.PaymentAttempt, error) {
				attemptID = a.ID
				return a, nil
			},
		)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusPending, ReasonClosed).DoAndReturn(
			func(_ context.Context, id string, _ entities.PaymentStatus, _ string) (entities.PaymentAttempt, error) {
				assert.Equal(t, attemptID, id)
				return entities.PaymentAttempt{}, nil
			},
		).Times(1)

		_, err := f.uc.Open(context.Background(), "tok", orderWithPix())
		require.NoError(t, err)

		ch, unsubscribe, err := f.uc.Subscribe(context.Background(), "tok", "order-1")
		require.NoError(t, err)
		defer unsubscribe()
		<-ch

		require.NoError(t, f.uc.Close(context.Background(), "tok", "order-1"))
		if _, ok := <-ch; ok {
			t.Fatalf("subscription must be closed after Close")
		}
		if err := f.uc.Close(context.Background(), "tok", "order-1"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
		if _, _, err := f.uc.Subscribe(context.Background(), "tok", "order-1"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
		if _, err := f.uc.Snapshot(context.Background(), "tok", " "); !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("approved session keeps its ledger record", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		f.provider.EXPECT().ConfirmPix(gomock.Any(), "tok", "order-1").Return(nil)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonManual).Return(entities.PaymentAttempt{}, nil).Times(1)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.uc.Open(context.Background(), "tok", orderWithPix())
		require.NoError(t, err)
		_, err = f.uc.RequestConfirmation(context.Background(), "tok", "order-1")
		require.NoError(t, err)
		_, err = f.uc.Confirm(context.Background(), "tok", "order-1")
		require.NoError(t, err)

		require.NoError(t, f.uc.Close(context.Background(), "tok", "order-1"))
	})
}

func TestPixSessionUseCase_Attempts(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().ListByOrderID(gomock.Any(), "order-1").Return([]entities.PaymentAttempt{
			{ID: "old", CreatedAt: fixedNow.Add(-time.Hour)},
			{ID: "new", CreatedAt: fixedNow},
		}, nil)

		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-1").Return(entities.Order{ID: "order-1"}, nil)

		got, err := f.uc.Attempts(context.Background(), "tok", "order-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "new", got[0].ID)
	})

	t.Run("session owner reads without a backend lookup", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		f.attempts.EXPECT().ListByOrderID(gomock.Any(), "order-1").Return([]entities.PaymentAttempt{{ID: "a"}}, nil)

		_, err := f.uc.Open(context.Background(), "tok", orderWithPix())
		require.NoError(t, err)
		got, err := f.uc.Attempts(context.Background(), "tok", "order-1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("order of another customer", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.orders.EXPECT().GetOrder(gomock.Any(), "mallory", "order-1").Return(entities.Order{}, interfaces.ErrOrderNotFound)

		_, err := f.uc.Attempts(context.Background(), "mallory", "order-1")
		if !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden, got %v", err)
		}
		if _, err := f.uc.Attempts(context.Background(), "", "order-1"); !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
	})

	t.Run("ledger disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIOrderBackend(ctrl)
		orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-1").Return(entities.Order{ID: "order-1"}, nil)
		uc := NewPixSessionUseCase(nil, orders, nil, nil, PixSessionConfig{})
		defer uc.Shutdown()
		_, err := uc.Attempts(context.Background(), "tok", "order-1")
		if !errors.Is(err, ErrLedgerDisabled) {
			t.Fatalf("expected ErrLedgerDisabled, got %v", err)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-1").Return(entities.Order{ID: "order-1"}, nil)
		f.attempts.EXPECT().ListByOrderID(gomock.Any(), "order-1").Return(nil, errors.New("ddb"))

		_, err := f.uc.Attempts(context.Background(), "tok", "order-1")
		if err == nil || err.Error() != "ddb" {
			t.Fatalf("expected ddb error, got %v", err)
		}
	})
}

func TestPixSessionUseCase_Ownership(t *testing.T) {
	t.Run("only the owner drives the session", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		f.orders.EXPECT().GetOrder(gomock.Any(), "mallory", "order-1").Return(entities.Order{}, interfaces.ErrOrderNotFound).AnyTimes()
		f.provider.EXPECT().ConfirmPix(gomock.Any(), "alice", "order-1").Return(nil).Times(1)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonManual).Return(entities.PaymentAttempt{}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		ctx := context.Background()

		_, err := f.uc.Open(ctx, "alice", orderWithPix())
		require.NoError(t, err)

		if _, err := f.uc.RequestConfirmation(ctx, "", "order-1"); !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate without a token, got %v", err)
		}
		if _, err := f.uc.Snapshot(ctx, "mallory", "order-1"); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on snapshot, got %v", err)
		}
		if _, _, err := f.uc.Subscribe(ctx, "mallory", "order-1"); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on subscribe, got %v", err)
		}
		if _, err := f.uc.RequestConfirmation(ctx, "mallory", "order-1"); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on request, got %v", err)
		}
		if _, err := f.uc.Confirm(ctx, "mallory", "order-1"); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on confirm, got %v", err)
		}
		if err := f.uc.Close(ctx, "mallory", "order-1"); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on close, got %v", err)
		}
		if _, err := f.uc.Open(ctx, "mallory", orderWithPix()); !errors.Is(err, ErrSessionForbidden) {
			t.Fatalf("expected ErrSessionForbidden on open, got %v", err)
		}

		_, err = f.uc.RequestConfirmation(ctx, "alice", "order-1")
		require.NoError(t, err)
		st, err := f.uc.Confirm(ctx, "alice", "order-1")
		require.NoError(t, err)
		assert.Equal(t, entities.RenderApproved, st.Kind)
	})

	t.Run("refreshed token of the owner is accepted and used", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		f.orders.EXPECT().GetOrder(gomock.Any(), "alice-refreshed", "order-1").Return(entities.Order{ID: "order-1"}, nil).Times(1)
		f.provider.EXPECT().ConfirmPix(gomock.Any(), "alice-refreshed", "order-1").Return(nil)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonManual).Return(entities.PaymentAttempt{}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		ctx := context.Background()

		_, err := f.uc.Open(ctx, "alice", orderWithPix())
		require.NoError(t, err)
		_, err = f.uc.RequestConfirmation(ctx, "alice-refreshed", "order-1")
		require.NoError(t, err)
		_, err = f.uc.Confirm(ctx, "alice-refreshed", "order-1")
		require.NoError(t, err)
	})

	t.Run("expired token is rejected before the running session is returned", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)
		ctx := context.Background()

		_, err := f.uc.Open(ctx, "alice", orderWithPix())
		require.NoError(t, err)
		if _, err := f.uc.Open(ctx, " ", orderWithPix()); !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
	})
}

func TestPixSessionUseCase_Reopen(t *testing.T) {
	t.Run("charges the total reported by the backend", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		total := decimal.RequireFromString("88.40")
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-7").Return(entities.Order{
			ID:    "order-7",
			Total: total,
			Pix:   &entities.PixCharge{PixCode: "000201stale"},
		}, nil)
		f.provider.EXPECT().GeneratePix(gomock.Any(), "tok", "order-7", total).Return(entities.PixCharge{PixCode: "000201new"}, nil).Times(1)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil)

		st, err := f.uc.Reopen(context.Background(), "tok", " order-7 ")
		require.NoError(t, err)
		assert.Equal(t, "000201new", st.PixCode)
		assert.True(t, st.Amount.Equal(total))

		// The running session is returned without another lookup.
		again, err := f.uc.Reopen(context.Background(), "tok", "order-7")
		require.NoError(t, err)
		assert.Equal(t, "000201new", again.PixCode)
	})

	t.Run("order not found for the caller", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-8").Return(entities.Order{}, interfaces.ErrOrderNotFound)

		_, err := f.uc.Reopen(context.Background(), "tok", "order-8")
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("backend failures", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-9").Return(entities.Order{}, &interfaces.BackendError{StatusCode: 401})
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-10").Return(entities.Order{}, interfaces.ErrBackendUnreachable)
		f.orders.EXPECT().GetOrder(gomock.Any(), "tok", "order-11").Return(entities.Order{ID: "order-11"}, nil)

		if _, err := f.uc.Reopen(context.Background(), "tok", "order-9"); !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
		if _, err := f.uc.Reopen(context.Background(), "tok", "order-10"); !errors.Is(err, ErrCheckoutUnavailable) {
			t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
		}
		if _, err := f.uc.Reopen(context.Background(), "tok", "order-11"); !errors.Is(err, ErrInvalidOrderTotal) {
			t.Fatalf("expected ErrInvalidOrderTotal, got %v", err)
		}
		if _, err := f.uc.Reopen(context.Background(), "", "order-11"); !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
	})
}

func TestPixSessionUseCase_ReopenAfterTerminal(t *testing.T) {
	t.Run("approved session is returned, never replaced", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		order := entities.Order{ID: "order-5", Total: decimal.RequireFromString("20")}
		f.provider.EXPECT().GeneratePix(gomock.Any(), "tok", "order-5", order.Total).Return(entities.PixCharge{PixCode: "000201five"}, nil).Times(1)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil).Times(1)
		f.provider.EXPECT().ConfirmPix(gomock.Any(), "tok", "order-5").Return(nil)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusApproved, ReasonManual).Return(entities.PaymentAttempt{}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		ctx := context.Background()

		_, err := f.uc.Open(ctx, "tok", order)
		require.NoError(t, err)
		_, err = f.uc.RequestConfirmation(ctx, "tok", "order-5")
		require.NoError(t, err)
		_, err = f.uc.Confirm(ctx, "tok", "order-5")
		require.NoError(t, err)

		st, err := f.uc.Open(ctx, "tok", order)
		require.NoError(t, err)
		assert.Equal(t, entities.RenderApproved, st.Kind)

		st, err = f.uc.Reopen(ctx, "tok", "order-5")
		require.NoError(t, err)
		assert.Equal(t, entities.RenderApproved, st.Kind)
	})

	t.Run("expired session may be replaced", func(t *testing.T) {
		f := newPixUseCaseFixture(t, time.Hour)
		expired := orderWithPix()
		expired.Pix.ExpiresAt = fixedNow.Add(-time.Minute)
		f.attempts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentAttempt{}, nil).Times(2)
		f.attempts.EXPECT().MarkFinished(gomock.Any(), gomock.Any(), entities.PaymentStatusExpired, ReasonCountdown).Return(entities.PaymentAttempt{}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		ctx := context.Background()

		st, err := f.uc.Open(ctx, "tok", expired)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			st, _ = f.uc.Snapshot(ctx, "tok", "order-1")
			return st.Kind == entities.RenderExpired
		}, time.Second, 5*time.Millisecond)

		st, err = f.uc.Open(ctx, "tok", orderWithPix())
		require.NoError(t, err)
		assert.Equal(t, entities.RenderPending, st.Kind)
	})
}
