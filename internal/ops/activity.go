package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
)

// PlayerActivityInput contains parameters for the PlayerActivity operation.
type PlayerActivityInput struct {
	GameID   string
	PlayerID string
}

// PlayerActivityOutput contains the result of the PlayerActivity operation.
// Activity is the typed value for presenters; Payload is its wire form.
type PlayerActivityOutput struct {
	GameID   string          `json:"game_id"`
	PlayerID string          `json:"player_id"`
	Kind     string          `json:"kind"`
	Version  int64           `json:"version"`
	Activity game.Activity   `json:"-"`
	Payload  json.RawMessage `json:"activity"`
}

// PlayerActivity reports what a player has to do right now.
func PlayerActivity(ctx context.Context, database *sql.DB, input PlayerActivityInput) (*PlayerActivityOutput, error) {
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

	activity, err := rec.Game.PlayerActivity(playerID)
	if err != nil {
		return nil, err
	}
	payload, err := game.MarshalActivity(activity)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &PlayerActivityOutput{
		GameID:   rec.ID,
		PlayerID: playerID,
		Kind:     game.Kind(activity),
		Version:  rec.Version,
		Activity: activity,
		Payload:  payload,
	}, nil
}
