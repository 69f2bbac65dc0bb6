package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller lacks owner, factory or allowlist privilege
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvariantViolation is returned when a call would break a contract invariant
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInsufficientPayment is returned when the value sent or approved is below the required amount
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrSupplyExhausted is returned when a sale has minted its full supply
	ErrSupplyExhausted = errors.New("supply exhausted")

	// ErrAlreadyInitialized is returned when an instance is initialized twice
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrConfiguration is returned when required wiring is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrTransferFailed is returned when a payout or refund cannot be delivered
	ErrTransferFailed = errors.New("transfer failed")

	// ErrGameNotFound is returned when a game id has no registry entry
	ErrGameNotFound = fmt.Errorf("%w: game not registered", ErrInvariantViolation)
)
