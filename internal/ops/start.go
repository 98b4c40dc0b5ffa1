package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
)

// StartGameInput contains parameters for the StartGame operation.
type StartGameInput struct {
	GameID          string
	MaxStoryEntries int // default: config default_max_story_entries
}

// StartGameOutput contains the result of the StartGame operation.
type StartGameOutput struct {
	ID              string   `json:"id"`
	PlayerIDs       []string `json:"player_ids"`
	MaxStoryEntries int      `json:"max_story_entries"`
	Version         int64    `json:"version"`
}

// StartGame locks the roster and opens one story slot per player.
func StartGame(ctx context.Context, d Deps, input StartGameInput) (*StartGameOutput, error) {
	maxEntries := input.MaxStoryEntries
	if maxEntries == 0 && d.Config != nil {
		maxEntries = d.Config.DefaultMaxStoryEntries
	}

	rec, err := mutate(ctx, d, "start_game", input.GameID, func(g *game.Game) (notify.Event, error) {
		if err := g.Start(maxEntries); err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventGameStarted}, nil
	})
	if err != nil {
		return nil, err
	}

	return &StartGameOutput{
		ID:              rec.ID,
		PlayerIDs:       rec.Game.PlayerIDs,
		MaxStoryEntries: rec.Game.MaxStoryEntries,
		Version:         rec.Version,
	}, nil
}
