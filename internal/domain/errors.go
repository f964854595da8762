package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Wager errors
	ErrMsgInvalidWager      = "invalid wager"
	ErrMsgInsufficientFunds = "insufficient funds"

	// Session errors
	ErrMsgSessionConflict = "a game is already active for this player"
	ErrMsgSessionNotFound = "no active game found"
	ErrMsgNotOwner        = "this is not your game"
	ErrMsgIllegalAction   = "illegal action"

	// Profile errors
	ErrMsgProfileNotFound = "profile not found"

	// Shop errors
	ErrMsgShopItemNotFound = "shop item not found"

	// Claim errors
	ErrMsgClaimNotReady = "claim is not ready yet"

	// Roulette errors
	ErrMsgInvalidBetSpace = "invalid bet space"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Wager errors
	ErrInvalidWager      = errors.New(ErrMsgInvalidWager)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Session errors
	ErrSessionConflict = errors.New(ErrMsgSessionConflict)
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)
	ErrNotOwner        = errors.New(ErrMsgNotOwner)
	ErrIllegalAction   = errors.New(ErrMsgIllegalAction)

	// Profile errors
	ErrProfileNotFound = errors.New(ErrMsgProfileNotFound)

	// Shop errors
	ErrShopItemNotFound = errors.New(ErrMsgShopItemNotFound)

	// Claim errors
	ErrClaimNotReady = errors.New(ErrMsgClaimNotReady)

	// Roulette errors
	ErrInvalidBetSpace = errors.New(ErrMsgInvalidBetSpace)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
