package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
	"github.com/hpungsan/scrawl/internal/story"
)

// TruncateStoryInput contains parameters for the TruncateStory operation.
type TruncateStoryInput struct {
	GameID     string
	PlayerID   string
	StoryIndex int
	Count      int // trailing words to remove, 1 to game.MaxTruncationCount
}

// TruncateStoryOutput contains the result of the TruncateStory operation.
type TruncateStoryOutput struct {
	GameID          string `json:"game_id"`
	StoryIndex      int    `json:"story_index"`
	CensoredContent string `json:"censored_content"`
	TruncateFrom    int    `json:"truncate_from"`
	Assignee        string `json:"assignee"`
	Version         int64  `json:"version"`
}

// TruncateStory blanks out the last words of the story's open entry.
func TruncateStory(ctx context.Context, d Deps, input TruncateStoryInput) (*TruncateStoryOutput, error) {
	var result *story.TruncateResult
	rec, err := mutate(ctx, d, "truncate_story", input.GameID, func(g *game.Game) (notify.Event, error) {
		var err error
		result, err = g.TruncateStory(input.PlayerID, input.StoryIndex, input.Count)
		if err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventStoryTruncated, PlayerID: input.PlayerID, StoryIndex: intPtr(input.StoryIndex)}, nil
	})
	if err != nil {
		return nil, err
	}

	return &TruncateStoryOutput{
		GameID:          rec.ID,
		StoryIndex:      input.StoryIndex,
		CensoredContent: result.CensoredContent,
		TruncateFrom:    result.TruncateFrom,
		Assignee:        rec.Game.Stories[input.StoryIndex].Assignee(),
		Version:         rec.Version,
	}, nil
}
