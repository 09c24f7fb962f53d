package provider

import (
	"errors"
	"fmt"
)

// TransientError is a failure that could succeed on a later attempt: network
// timeouts, rate-limit responses, temporary provider unavailability. The
// client retries these internally; an exhausted retry budget surfaces the
// last one to the caller.
type TransientError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure in %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a failure retrying cannot fix: unknown subject, malformed
// request, bad credentials. It is surfaced immediately without retry.
type PermanentError struct {
	Provider string
	Op       string
	Err      error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: permanent failure in %s: %v", e.Provider, e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsPermanent reports whether err is (or wraps) a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
