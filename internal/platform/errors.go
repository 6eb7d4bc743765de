package platform

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAlreadyRunning is an error returned when sync can't be started because previous run is not finished yet.
	ErrAlreadyRunning = errors.New("sync already running for this store and provider")
	// ErrNotInitialized is returned when provider adapter is used before Initialize succeeded.
	ErrNotInitialized = errors.New("provider adapter is not initialized")
	// ErrNotFound is returned when requested record doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when record was changed concurrently.
	ErrConflict = errors.New("record changed concurrently")
)

// AuthError is returned when provider rejected credentials.
// It is fatal for the adapter instance and is never retried.
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected credentials (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s rejected credentials (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// RateLimitError is returned when provider throttles requests.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Provider, e.RetryAfter)
}

// NetworkError is returned when provider can't be reached or request timed out.
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("can't reach %s: %s", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when provider or canonical schema rejected an item.
type ValidationError struct {
	Provider string
	Fields   []string
	Message  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	if e.Provider != "" {
		b.WriteString(" (")
		b.WriteString(e.Provider)
		b.WriteString(")")
	}
	if len(e.Fields) > 0 {
		b.WriteString(" on ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// ProviderError is opaque provider side failure passed through from 4xx/5xx responses.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// PermanentError marks failure of operation which must not be repeated automatically.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not retryable. It returns nil for nil err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsRetryable reports whether err may succeed when the operation is repeated.
func IsRetryable(err error) bool {
	var (
		permanentErr *PermanentError
		rateLimitErr *RateLimitError
		networkErr   *NetworkError
		providerErr  *ProviderError
	)

	switch {
	case errors.As(err, &permanentErr):
		return false
	case errors.As(err, &rateLimitErr), errors.As(err, &networkErr):
		return true
	case errors.As(err, &providerErr):
		return providerErr.StatusCode >= 500 || providerErr.StatusCode == 0
	default:
		return false
	}
}

// RetryAfter returns delay requested by provider, if err carries one.
func RetryAfter(err error) (time.Duration, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.RetryAfter, true
	}
	return 0, false
}
