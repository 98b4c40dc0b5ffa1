package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
)

// DeleteGameInput contains parameters for the DeleteGame operation.
type DeleteGameInput struct {
	GameID string
}

// DeleteGameOutput contains the result of the DeleteGame operation.
type DeleteGameOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// DeleteGame soft-deletes a game. Deleted games reject every command.
func DeleteGame(ctx context.Context, database *sql.DB, input DeleteGameInput) (*DeleteGameOutput, error) {
	id := strings.TrimSpace(input.GameID)
	if id == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}

	if err := db.SoftDeleteGame(ctx, database, id); err != nil {
		return nil, err
	}

	return &DeleteGameOutput{
		Deleted: true,
		ID:      id,
	}, nil
}
