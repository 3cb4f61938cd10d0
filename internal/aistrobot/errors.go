package aistrobot

import "errors"

var (
	// ErrRequestFailed is the single failure category of a completion
	// request. Provider errors are wrapped with it; the underlying detail
	// stays in the chain but is not categorized further.
	ErrRequestFailed = errors.New("completion request failed")

	// ErrNotConfigured indicates no API credential has been configured yet.
	ErrNotConfigured = errors.New("no API key configured")

	// ErrUnsupportedProvider indicates the model string names an unknown provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// RequestError wraps a provider error so that errors.Is(err, ErrRequestFailed)
// holds while the cause remains reachable through errors.Unwrap.
type RequestError struct {
	Cause error
}

func (e *RequestError) Error() string {
	if e.Cause == nil {
		return ErrRequestFailed.Error()
	}
	return ErrRequestFailed.Error() + ": " + e.Cause.Error()
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// RequestFailed wraps err as a RequestError. A nil err still yields a
// failure, since the caller only invokes it on the failure path.
func RequestFailed(err error) error {
	return &RequestError{Cause: err}
}
