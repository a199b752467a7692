package booking

import "errors"

var (
	// ErrBookingUnavailable means the underlying storage rejected the
	// finalize attempt. The session stays at confirm with its fields
	// intact so the caller can retry without re-collecting anything.
	ErrBookingUnavailable = errors.New("booking_unavailable")

	// ErrIncompleteSession means finalize was invoked before every
	// required field was collected. The state machine never does this;
	// seeing it indicates a violated dialogue invariant.
	ErrIncompleteSession = errors.New("session missing required fields")
)
