package exchangerate

import "github.com/cockroachdb/errors"

// Error classes. Concrete errors are marked with one of these so callers
// can branch with errors.Is while keeping the original cause in the message.
var (
	// ErrUpstreamUnavailable covers transport failures, timeouts, non-2xx
	// statuses and bodies that are not JSON.
	ErrUpstreamUnavailable = errors.New("exchange rate upstream unavailable")
	// ErrUpstreamRejected means the API answered but its result field was
	// not "success" (typically an unknown currency code).
	ErrUpstreamRejected = errors.New("exchange rate upstream rejected request")
	// ErrMalformedInput is an unparseable pair or a code absent from a snapshot.
	ErrMalformedInput = errors.New("malformed currency input")
)

// RejectedError carries the API-level result value of a rejected request
type RejectedError struct {
	Result string
}

func (e *RejectedError) Error() string {
	return "API returned result '" + e.Result + "'"
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrUpstreamRejected
}

func unavailable(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrUpstreamUnavailable)
}
