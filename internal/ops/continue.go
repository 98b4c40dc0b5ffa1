package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
)

// ContinueStoryInput contains parameters for the ContinueStory operation.
type ContinueStoryInput struct {
	GameID     string
	PlayerID   string
	StoryIndex int
	Content    string
}

// ContinueStoryOutput contains the result of the ContinueStory operation.
type ContinueStoryOutput struct {
	GameID     string `json:"game_id"`
	StoryIndex int    `json:"story_index"`
	Entries    int    `json:"entries"`
	Assignee   string `json:"assignee"`
	Version    int64  `json:"version"`
}

// ContinueStory appends a new entry to a repaired story.
func ContinueStory(ctx context.Context, d Deps, input ContinueStoryInput) (*ContinueStoryOutput, error) {
	rec, err := mutate(ctx, d, "continue_story", input.GameID, func(g *game.Game) (notify.Event, error) {
		if err := g.ContinueStory(input.PlayerID, input.StoryIndex, input.Content); err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventStoryContinued, PlayerID: input.PlayerID, StoryIndex: intPtr(input.StoryIndex)}, nil
	})
	if err != nil {
		return nil, err
	}

	s := rec.Game.Stories[input.StoryIndex]
	return &ContinueStoryOutput{
		GameID:     rec.ID,
		StoryIndex: input.StoryIndex,
		Entries:    len(s.Entries),
		Assignee:   s.Assignee(),
		Version:    rec.Version,
	}, nil
}
