package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
)

// SubscribeInput contains parameters for the Subscribe operation.
type SubscribeInput struct {
	GameID   string
	PlayerID string
}

// SubscribeOutput contains the result of the Subscribe operation.
type SubscribeOutput struct {
	GameID      string   `json:"game_id"`
	Subscribers []string `json:"subscribers"`
}

// Subscribe registers a player of the game for its change events.
// Subscribing twice is harmless.
func Subscribe(ctx context.Context, database *sql.DB, input SubscribeInput) (*SubscribeOutput, error) {
	id := strings.TrimSpace(input.GameID)
	if id == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}
	playerID, err := requirePlayerID(input.PlayerID)
	if err != nil {
		return nil, err
	}

	rec, err := db.GetGame(ctx, database, id, false)
	if err != nil {
		return nil, err
	}
	if !rec.Game.HasPlayer(playerID) {
		return nil, errors.NewNotInGame(playerID)
	}

	if err := db.Subscribe(ctx, database, rec.ID, playerID); err != nil {
		return nil, err
	}
	players, err := db.PlayersSubscribedToGame(ctx, database, rec.ID)
	if err != nil {
		return nil, err
	}

	return &SubscribeOutput{
		GameID:      rec.ID,
		Subscribers: players,
	}, nil
}
