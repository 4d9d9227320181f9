package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Player messages
	ErrMsgPlayerNotFoundHTTP = "Player not found"
	ErrMsgNoTargetHTTP       = "Player has no target to arrive at"

	// Node messages
	ErrMsgNodeNotFoundHTTP    = "Node not found"
	ErrMsgNodeUnavailableHTTP = "Node is no longer available"
	ErrMsgUnknownTargetHTTP   = "Target does not exist"
	ErrMsgNoHarvestableHTTP   = "No harvestable node available"

	// Economy messages
	ErrMsgItemNotFoundHTTP      = "You don't have that item"
	ErrMsgAlreadyOwnedHTTP      = "You already own that tool"
	ErrMsgInsufficientCoinsHTTP = "Not enough coins"

	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
)
