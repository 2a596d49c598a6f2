package protocol

import "errors"

// Shared failure modes of the protocol state machines. A received
// problem-report message is not one of these: it is protocol traffic and
// drives a machine to its terminal failure state instead of erroring.
var (
	// ErrInvalidAction is an operation invoked against the wrong role or
	// an inapplicable state. The machine is never mutated.
	ErrInvalidAction = errors.New("invalid action")

	// ErrThreadMismatch is a message whose thread id does not match the
	// exchange. The message is discarded, the state stays.
	ErrThreadMismatch = errors.New("thread id mismatch")

	// ErrNotReady is an operation that needs connection details which are
	// not established yet.
	ErrNotReady = errors.New("not ready")

	// ErrInvalidState is a state payload the operation cannot work with,
	// e.g. a serialized exchange missing required artifacts.
	ErrInvalidState = errors.New("invalid state")
)
