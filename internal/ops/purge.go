package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
)

// PurgeGamesInput contains parameters for the PurgeGames operation.
type PurgeGamesInput struct {
	OlderThanDays *int // optional, only purge if deleted_at < (now - N days)
}

// PurgeGamesOutput contains the result of the PurgeGames operation.
type PurgeGamesOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// PurgeGames permanently deletes soft-deleted games and their subscriptions.
func PurgeGames(ctx context.Context, database *sql.DB, input PurgeGamesInput) (*PurgeGamesOutput, error) {
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must not be negative")
	}

	count, err := db.PurgeDeletedGames(ctx, database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeGamesOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count int, olderThanDays *int) string {
	if count == 0 {
		return "No deleted games to purge"
	}

	word := "game"
	if count > 1 {
		word = "games"
	}
	msg := fmt.Sprintf("Permanently deleted %d %s", count, word)
	if olderThanDays != nil {
		msg += fmt.Sprintf(" (deleted more than %d days ago)", *olderThanDays)
	}
	return msg
}
