package generation

import (
	"fmt"
	"math"
	"time"
)

// QuotaExceededError means every model tier that was tried is rate limited.
type QuotaExceededError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("model quota exceeded, retry after %ds: %v", e.RetryAfterSeconds(), e.Err)
}

func (e *QuotaExceededError) Unwrap() error {
	return e.Err
}

// RetryAfterSeconds returns the delay in whole seconds, rounded up.
func (e *QuotaExceededError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// GenerationFailedError covers every non-quota failure: provider errors,
// timeouts and replies that do not fit the expected shape.
type GenerationFailedError struct {
	Details string
	Err     error
}

func (e *GenerationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Details, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Details)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}

// ReplyError reports a model reply that could not be decoded into the
// expected structure.
type ReplyError struct {
	Reply string
	Err   error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("model reply does not match the expected structure: %v", e.Err)
}

func (e *ReplyError) Unwrap() error {
	return e.Err
}

func failed(err error) *GenerationFailedError {
	return &GenerationFailedError{Details: err.Error(), Err: err}
}
