package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Scrawl error code.
type ErrorCode string

const (
	ErrInvalidRequest                ErrorCode = "INVALID_REQUEST"                 // 400
	ErrNotInGame                     ErrorCode = "NOT_IN_GAME"                     // 403
	ErrUnauthorizedStoryModification ErrorCode = "UNAUTHORIZED_STORY_MODIFICATION" // 403
	ErrNotFound                      ErrorCode = "NOT_FOUND"                       // 404
	ErrFileNotFound                  ErrorCode = "FILE_NOT_FOUND"                  // 404
	ErrIncorrectStoryModification    ErrorCode = "INCORRECT_STORY_MODIFICATION"    // 409
	ErrInvalidActivity               ErrorCode = "INVALID_ACTIVITY"                // 409
	ErrGameAlreadyStarted            ErrorCode = "GAME_ALREADY_STARTED"            // 409
	ErrGameNotStarted                ErrorCode = "GAME_NOT_STARTED"                // 409
	ErrConflict                      ErrorCode = "CONFLICT"                        // 409
	ErrCancelled                     ErrorCode = "CANCELLED"                       // 499
	ErrInvariantViolation            ErrorCode = "INVARIANT_VIOLATION"             // 500
	ErrInternal                      ErrorCode = "INTERNAL"                        // 500
)

// ScrawlError represents a structured error with code, status, and details.
type ScrawlError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ScrawlError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed input.
func NewInvalidRequest(msg string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown game.
func NewNotFound(identifier string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("game not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewStoryNotFound creates a 404 error for a story slot that is empty or out of range.
func NewStoryNotFound(gameID string, storyIndex int) *ScrawlError {
	return &ScrawlError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("story not found: %d", storyIndex),
		Details: map[string]any{"game_id": gameID, "story_index": storyIndex},
	}
}

// NewFileNotFound creates a 404 error for a missing file.
func NewFileNotFound(path string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNotInGame creates a 403 error for a player who never joined the game.
func NewNotInGame(playerID string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrNotInGame,
		Status:  403,
		Message: fmt.Sprintf("player %q is not in this game", playerID),
		Details: map[string]any{"player_id": playerID},
	}
}

// NewUnauthorizedStoryModification creates a 403 error for a player who is
// not the current assignee of the story.
func NewUnauthorizedStoryModification(playerID string, storyIndex int) *ScrawlError {
	return &ScrawlError{
		Code:    ErrUnauthorizedStoryModification,
		Status:  403,
		Message: fmt.Sprintf("player %q may not modify story %d", playerID, storyIndex),
		Details: map[string]any{"player_id": playerID, "story_index": storyIndex},
	}
}

// NewIncorrectStoryModification creates a 409 error for the assignee
// attempting an action the story is not waiting for.
func NewIncorrectStoryModification(storyIndex int, attempted, required string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrIncorrectStoryModification,
		Status:  409,
		Message: fmt.Sprintf("story %d expects %s, not %s", storyIndex, required, attempted),
		Details: map[string]any{"story_index": storyIndex, "attempted": attempted, "required": required},
	}
}

// NewInvalidActivity creates a 409 error raised by a story when the wrong
// player or the wrong action reaches it.
func NewInvalidActivity(playerID, attempted, required, assignee string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrInvalidActivity,
		Status:  409,
		Message: fmt.Sprintf("invalid activity %s by %q: story requires %s by %q", attempted, playerID, required, assignee),
		Details: map[string]any{
			"player_id": playerID,
			"attempted": attempted,
			"required":  required,
			"assignee":  assignee,
		},
	}
}

// NewGameAlreadyStarted creates a 409 error for lobby operations on a running game.
func NewGameAlreadyStarted() *ScrawlError {
	return &ScrawlError{
		Code:    ErrGameAlreadyStarted,
		Status:  409,
		Message: "game has already started",
	}
}

// NewGameNotStarted creates a 409 error for story operations before the game starts.
func NewGameNotStarted() *ScrawlError {
	return &ScrawlError{
		Code:    ErrGameNotStarted,
		Status:  409,
		Message: "game has not started",
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCancelled creates a 499 error when an operation is interrupted by its context.
func NewCancelled(operation string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInvariantViolation creates a 500 error for states the game rules never
// produce. These are programmer errors and are not meant to be recovered.
func NewInvariantViolation(msg string) *ScrawlError {
	return &ScrawlError{
		Code:    ErrInvariantViolation,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ScrawlError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ScrawlError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ScrawlError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *ScrawlError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As extracts a ScrawlError from err, wrapping anything else as INTERNAL.
func As(err error) *ScrawlError {
	var sErr *ScrawlError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return NewInternal(err)
}
