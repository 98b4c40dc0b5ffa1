package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
)

// FetchGameInput contains parameters for the FetchGame operation.
type FetchGameInput struct {
	GameID         string
	IncludeDeleted bool
}

// FetchGameOutput contains the result of the FetchGame operation.
type FetchGameOutput struct {
	ID          string         `json:"id"`
	Version     int64          `json:"version"`
	Completed   bool           `json:"completed"`
	Assignments map[string]int `json:"assignments"`
	CreatedAt   int64          `json:"created_at"`
	UpdatedAt   int64          `json:"updated_at"`
	DeletedAt   *int64         `json:"deleted_at,omitempty"`
	Game        *game.Game     `json:"game"`
}

// FetchGame retrieves a game with its full state.
func FetchGame(ctx context.Context, database *sql.DB, input FetchGameInput) (*FetchGameOutput, error) {
	id := strings.TrimSpace(input.GameID)
	if id == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}

	rec, err := db.GetGame(ctx, database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchGameOutput{
		ID:          rec.ID,
		Version:     rec.Version,
		Completed:   rec.Game.IsComplete(),
		Assignments: rec.Game.Assignments(),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		DeletedAt:   rec.DeletedAt,
		Game:        rec.Game,
	}, nil
}
