package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
)

// JoinGameInput contains parameters for the JoinGame operation.
type JoinGameInput struct {
	GameID   string
	PlayerID string
}

// JoinGameOutput contains the result of the JoinGame operation.
type JoinGameOutput struct {
	ID        string   `json:"id"`
	PlayerIDs []string `json:"player_ids"`
	Version   int64    `json:"version"`
}

// JoinGame adds a player to a game that has not started and subscribes them
// to its events. Joining twice succeeds without changing the roster.
func JoinGame(ctx context.Context, d Deps, input JoinGameInput) (*JoinGameOutput, error) {
	playerID, err := requirePlayerID(input.PlayerID)
	if err != nil {
		return nil, err
	}

	rec, err := mutate(ctx, d, "join_game", input.GameID, func(g *game.Game) (notify.Event, error) {
		if err := g.Join(playerID); err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventPlayerJoined, PlayerID: playerID}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Subscribe(ctx, d.DB, rec.ID, playerID); err != nil {
		return nil, err
	}

	return &JoinGameOutput{
		ID:        rec.ID,
		PlayerIDs: rec.Game.PlayerIDs,
		Version:   rec.Version,
	}, nil
}
