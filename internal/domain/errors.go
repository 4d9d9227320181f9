package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Player errors
	ErrMsgPlayerNotFound = "player not found"
	ErrMsgNoTarget       = "player has no target"

	// Node errors
	ErrMsgNodeNotFound    = "node not found"
	ErrMsgNodeUnavailable = "node is not available"
	ErrMsgUnknownTarget   = "unknown target"
	ErrMsgOrphanedNode    = "no command references node"

	// Inventory errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgAlreadyOwned = "tool already owned"

	// Economy errors
	ErrMsgInsufficientCoins = "insufficient coins"

	// Village errors
	ErrMsgVillageNotFound = "village not found"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Player errors
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
	ErrNoTarget       = errors.New(ErrMsgNoTarget)

	// Node errors
	ErrNodeNotFound    = errors.New(ErrMsgNodeNotFound)
	ErrNodeUnavailable = errors.New(ErrMsgNodeUnavailable)
	ErrUnknownTarget   = errors.New(ErrMsgUnknownTarget)
	ErrOrphanedNode    = errors.New(ErrMsgOrphanedNode)

	// Inventory errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrAlreadyOwned = errors.New(ErrMsgAlreadyOwned)

	// Economy errors
	ErrInsufficientCoins = errors.New(ErrMsgInsufficientCoins)

	// Village errors
	ErrVillageNotFound = errors.New(ErrMsgVillageNotFound)
)
