package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthorizationInvalid is returned when the signed authorization
	// consumed at creation fails signature, nonce or binding checks.
	ErrAuthorizationInvalid = errors.New("authorization invalid")
	// ErrAuthorizationExpired is returned when the authorization deadline
	// has passed.
	ErrAuthorizationExpired = errors.New("authorization expired")
	// ErrTransferFailed is returned when the custody collaborator could not
	// move funds. The underlying cause is wrapped.
	ErrTransferFailed = errors.New("transfer failed")
	// ErrIllegalTransition is returned when an operation is invoked against
	// an intent that is not in the required source state.
	ErrIllegalTransition = errors.New("illegal state transition")
	// ErrInvalidAmount is returned when a creation request carries a
	// non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	ErrNotAuthorizedSolver = errors.New("caller is not an authorized solver")
	ErrNotIntentOwner      = errors.New("caller is not the intent owner")
	ErrNotAuthorized       = errors.New("caller is not authorized")

	// ErrUnknownIntent is returned when no intent exists with the given id.
	ErrUnknownIntent = errors.New("unknown intent")
)

// TransitionError reports the state an intent was found in when an operation
// required a different one. It matches ErrIllegalTransition with errors.Is.
type TransitionError struct {
	ID   uint64
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s intent %d in state %s", e.Op, e.ID, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
