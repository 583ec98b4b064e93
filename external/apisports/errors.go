package apisports

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrTransient marks failures worth retrying: transport errors,
	// 429 and 5xx responses.
	ErrTransient = crerr.New("api-sports transient failure")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = crerr.New("api-sports is temporarily unavailable")
	// ErrProviderRejected is returned when a 2xx envelope carries errors.
	ErrProviderRejected = crerr.New("api-sports rejected the request")
	// ErrInvalidPayload is returned when the body does not decode into
	// the expected envelope or a record fails validation.
	ErrInvalidPayload = crerr.New("api-sports returned an invalid payload")
)

// StatusError reports a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d (%s) body=%s", e.StatusCode, e.Status, e.Body)
}

// Is reports 429 and 5xx responses as ErrTransient.
func (e *StatusError) Is(target error) bool {
	return target == ErrTransient && isRetryableStatus(e.StatusCode)
}
