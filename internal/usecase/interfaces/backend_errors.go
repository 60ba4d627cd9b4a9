package interfaces

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBackendUnauthorized is matched by any BackendError carrying 401.
var ErrBackendUnauthorized = errors.New("storefront backend unauthorized")

// ErrBackendUnreachable wraps transport failures (DNS, refused, timeout).
var ErrBackendUnreachable = errors.New("storefront backend unreachable")

// ErrOrderNotFound means the order is not among the caller's orders.
var ErrOrderNotFound = errors.New("order not found for customer")

// BackendError is a non-2xx answer from the storefront backend or the PIX
// provider. Message carries the server's user-facing message when present.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront backend status=%d", e.StatusCode)
	}
	return fmt.Sprintf("storefront backend status=%d message=%s", e.StatusCode, e.Message)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// IsValidation reports a 400-class rejection of the request content.
func (e *BackendError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}
