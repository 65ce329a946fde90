package domain

import "errors"

// Session establishment failures.
var (
	ErrNoProvider            = errors.New("no wallet provider detected")
	ErrNetworkSwitchRejected = errors.New("network switch rejected")
	ErrSignatureRejected     = errors.New("signature request rejected")
	ErrSignerMismatch        = errors.New("recovered signer does not match requested account")
	ErrAuthInProgress        = errors.New("an authentication attempt is already in flight")
)

// Mutating-operation failures.
var (
	ErrUnauthenticated     = errors.New("no authenticated session")
	ErrWritePending        = errors.New("a write for this note is still pending")
	ErrDispatchRejected    = errors.New("transaction dispatch rejected")
	ErrExecutionReverted   = errors.New("transaction reverted")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrContractUnreachable = errors.New("contract unreachable or misconfigured")
	ErrUnknownFailure      = errors.New("unknown failure")
)

// Read failures.
var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrDraftNotFound = errors.New("draft not found")
)
