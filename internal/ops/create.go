package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/metrics"
)

// CreateGameInput contains parameters for the CreateGame operation.
type CreateGameInput struct {
	PlayerIDs []string // optional, joined in order and subscribed
}

// CreateGameOutput contains the result of the CreateGame operation.
type CreateGameOutput struct {
	ID        string   `json:"id"`
	PlayerIDs []string `json:"player_ids"`
	Version   int64    `json:"version"`
}

// CreateGame stores a new game, optionally seeded with players.
func CreateGame(ctx context.Context, database *sql.DB, input CreateGameInput) (*CreateGameOutput, error) {
	out, err := createGame(ctx, database, input)
	metrics.ObserveCommand("create_game", err)
	return out, err
}

func createGame(ctx context.Context, database *sql.DB, input CreateGameInput) (*CreateGameOutput, error) {
	g := game.New()
	for _, p := range input.PlayerIDs {
		if err := g.Join(p); err != nil {
			return nil, err
		}
	}

	if ctx.Err() != nil {
		return nil, errors.NewCancelled("create_game")
	}

	rec, err := db.AddGame(ctx, database, g)
	if err != nil {
		return nil, err
	}
	for _, p := range g.PlayerIDs {
		if err := db.Subscribe(ctx, database, rec.ID, p); err != nil {
			return nil, err
		}
	}

	return &CreateGameOutput{
		ID:        rec.ID,
		PlayerIDs: g.PlayerIDs,
		Version:   rec.Version,
	}, nil
}
