package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
)

// StartStoryInput contains parameters for the StartStory operation.
type StartStoryInput struct {
	GameID   string
	PlayerID string
	Content  string
}

// StartStoryOutput contains the result of the StartStory operation.
type StartStoryOutput struct {
	GameID     string `json:"game_id"`
	StoryIndex int    `json:"story_index"`
	Assignee   string `json:"assignee"`
	Version    int64  `json:"version"`
}

// StartStory writes the player's first entry into their own story slot.
func StartStory(ctx context.Context, d Deps, input StartStoryInput) (*StartStoryOutput, error) {
	var index int
	rec, err := mutate(ctx, d, "start_story", input.GameID, func(g *game.Game) (notify.Event, error) {
		var err error
		index, err = g.StartStory(input.PlayerID, input.Content)
		if err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventStoryStarted, PlayerID: input.PlayerID, StoryIndex: intPtr(index)}, nil
	})
	if err != nil {
		return nil, err
	}

	return &StartStoryOutput{
		GameID:     rec.ID,
		StoryIndex: index,
		Assignee:   rec.Game.Stories[index].Assignee(),
		Version:    rec.Version,
	}, nil
}
