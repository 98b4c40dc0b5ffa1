package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
	"github.com/hpungsan/scrawl/internal/story"
)

// CensorStoryInput contains parameters for the CensorStory operation.
type CensorStoryInput struct {
	GameID      string
	PlayerID    string
	StoryIndex  int
	WordIndices []int // ascending indices into the word boundaries
}

// CensorStoryOutput contains the result of the CensorStory operation.
type CensorStoryOutput struct {
	GameID          string        `json:"game_id"`
	StoryIndex      int           `json:"story_index"`
	CensoredContent string        `json:"censored_content"`
	Censors         []story.Range `json:"censors"`
	Assignee        string        `json:"assignee"`
	Version         int64         `json:"version"`
}

// CensorStory blanks out chosen words of the story's open entry.
func CensorStory(ctx context.Context, d Deps, input CensorStoryInput) (*CensorStoryOutput, error) {
	var result *story.CensorResult
	rec, err := mutate(ctx, d, "censor_story", input.GameID, func(g *game.Game) (notify.Event, error) {
		var err error
		result, err = g.CensorStory(input.PlayerID, input.StoryIndex, input.WordIndices)
		if err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventStoryCensored, PlayerID: input.PlayerID, StoryIndex: intPtr(input.StoryIndex)}, nil
	})
	if err != nil {
		return nil, err
	}

	return &CensorStoryOutput{
		GameID:          rec.ID,
		StoryIndex:      input.StoryIndex,
		CensoredContent: result.CensoredContent,
		Censors:         result.Censors,
		Assignee:        rec.Game.Stories[input.StoryIndex].Assignee(),
		Version:         rec.Version,
	}, nil
}
