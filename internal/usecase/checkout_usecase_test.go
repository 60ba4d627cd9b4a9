package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"
	mock_interfaces "cervejaria_storefront/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func validCart() []entities.CartItem {
	return []entities.CartItem{
		{ID: "ipa-01", Name: "IPA", UnitPrice: decimal.RequireFromString("19.90"), Quantity: 2},
	}
}

func validAddress() entities.ShippingAddress {
	return entities.ShippingAddress{PostalCode: "80010000", Street: "Rua XV", Number: "42", City: "Curitiba", State: "pr"}
}

func TestCheckoutUseCase_PlaceOrder_Validations(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		_, err := uc.PlaceOrder(context.Background(), "tok", nil, validAddress())
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("invalid item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		items := []entities.CartItem{{ID: "ipa-01", UnitPrice: decimal.RequireFromString("10"), Quantity: 0}}
		_, err := uc.PlaceOrder(context.Background(), "tok", items, validAddress())
		if !errors.Is(err, ErrInvalidCartItem) {
			t.Fatalf("expected ErrInvalidCartItem, got %v", err)
		}
	})

	t.Run("missing number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		addr := validAddress()
		addr.Number = ""
		_, err := uc.PlaceOrder(context.Background(), "tok", validCart(), addr)

		var ave *AddressValidationError
		if !errors.As(err, &ave) {
			t.Fatalf("expected AddressValidationError, got %v", err)
		}
		if !reflect.DeepEqual(ave.Fields, []string{"number"}) {
			t.Fatalf("expected [number], got %v", ave.Fields)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		_, err := uc.PlaceOrder(context.Background(), " ", validCart(), validAddress())
		if !errors.Is(err, ErrReauthenticate) {
			t.Fatalf("expected ErrReauthenticate, got %v", err)
		}
	})

	t.Run("backend not configured", func(t *testing.T) {
		uc := NewCheckoutUseCase(nil)
		_, err := uc.PlaceOrder(context.Background(), "tok", validCart(), validAddress())
		if err == nil || err.Error() != "order backend not configured" {
			t.Fatalf("expected backend not configured error, got %v", err)
		}
	})
}

func TestCheckoutUseCase_PlaceOrder_BackendErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		assert func(t *testing.T, err error)
	}{
		{
			name: "unauthorized",
			err:  &interfaces.BackendError{StatusCode: 401, Message: "token expirado"},
			assert: func(t *testing.T, err error) {
				if !errors.Is(err, ErrReauthenticate) {
					t.Fatalf("expected ErrReauthenticate, got %v", err)
				}
			},
		},
		{
			name: "validation",
			err:  &interfaces.BackendError{StatusCode: 400, Message: "CEP inválido"},
			assert: func(t *testing.T, err error) {
				var bve *BackendValidationError
				if !errors.As(err, &bve) || bve.Message != "CEP inválido" {
					t.Fatalf("expected BackendValidationError with backend message, got %v", err)
				}
			},
		},
		{
			name: "validation without message",
			err:  &interfaces.BackendError{StatusCode: 422},
			assert: func(t *testing.T, err error) {
				var bve *BackendValidationError
				if !errors.As(err, &bve) || bve.Message != "invalid order" {
					t.Fatalf("expected default validation message, got %v", err)
				}
			},
		},
		{
			name: "server error",
			err:  &interfaces.BackendError{StatusCode: 503},
			assert: func(t *testing.T, err error) {
				if !errors.Is(err, ErrCheckoutUnavailable) {
					t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
				}
			},
		},
		{
			name: "unreachable",
			err:  interfaces.ErrBackendUnreachable,
			assert: func(t *testing.T, err error) {
				if !errors.Is(err, ErrCheckoutUnavailable) || !errors.Is(err, interfaces.ErrBackendUnreachable) {
					t.Fatalf("expected wrapped unreachable error, got %v", err)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mock_interfaces.NewMockIOrderBackend(ctrl)
			uc := NewCheckoutUseCase(backend)

			backend.EXPECT().CreateOrder(gomock.Any(), "tok", gomock.Any(), gomock.Any()).Return(entities.Order{}, tc.err)

			_, err := uc.PlaceOrder(context.Background(), "tok", validCart(), validAddress())
			tc.assert(t, err)
		})
	}
}

func TestCheckoutUseCase_PlaceOrder_Result(t *testing.T) {
	t.Run("order without id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		backend.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Order{Total: decimal.RequireFromString("10")}, nil)

		_, err := uc.PlaceOrder(context.Background(), "tok", validCart(), validAddress())
		if !errors.Is(err, ErrCheckoutUnavailable) {
			t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
		}
	})

	t.Run("zero total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		backend.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Order{ID: "o-1", Total: decimal.Zero}, nil)

		_, err := uc.PlaceOrder(context.Background(), "tok", validCart(), validAddress())
		if !errors.Is(err, ErrInvalidOrderTotal) {
			t.Fatalf("expected ErrInvalidOrderTotal, got %v", err)
		}
	})

	t.Run("success sends the normalized address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mock_interfaces.NewMockIOrderBackend(ctrl)
		uc := NewCheckoutUseCase(backend)

		backend.EXPECT().CreateOrder(gomock.Any(), "tok", gomock.Len(1), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ []entities.CartItem, addr entities.ShippingAddress) (entities.Order, error) {
				if addr.PostalCode != "80010-000" || addr.State != "PR" {
					t.Errorf("address not normalized: %+v", addr)
				}
				return entities.Order{ID: "o-1", Total: decimal.RequireFromString("39.81")}, nil
			},
		)

		order, err := uc.PlaceOrder(context.Background(), "tok", validCart(), validAddress())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != "o-1" || !order.Total.Equal(decimal.RequireFromString("39.81")) {
			t.Fatalf("unexpected order: %+v", order)
		}
	})
}
