package ops

import (
	"context"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/notify"
)

// RepairStoryInput contains parameters for the RepairStory operation.
type RepairStoryInput struct {
	GameID       string
	PlayerID     string
	StoryIndex   int
	Replacements []string // one per censor span; a single ending for a truncation
}

// RepairStoryOutput contains the result of the RepairStory operation.
type RepairStoryOutput struct {
	GameID          string `json:"game_id"`
	StoryIndex      int    `json:"story_index"`
	RepairedContent string `json:"repaired_content"`
	StoryCompleted  bool   `json:"story_completed"`
	GameCompleted   bool   `json:"game_completed"`
	Assignee        string `json:"assignee,omitempty"`
	Version         int64  `json:"version"`
}

// RepairStory fills the redacted parts of the open entry. The story then
// either completes or moves on to the next author.
func RepairStory(ctx context.Context, d Deps, input RepairStoryInput) (*RepairStoryOutput, error) {
	var repaired string
	rec, err := mutate(ctx, d, "repair_story", input.GameID, func(g *game.Game) (notify.Event, error) {
		var err error
		repaired, err = g.RepairStory(input.PlayerID, input.StoryIndex, input.Replacements)
		if err != nil {
			return notify.Event{}, err
		}
		return notify.Event{Type: notify.EventStoryRepaired, PlayerID: input.PlayerID, StoryIndex: intPtr(input.StoryIndex)}, nil
	})
	if err != nil {
		return nil, err
	}

	s := rec.Game.Stories[input.StoryIndex]
	return &RepairStoryOutput{
		GameID:          rec.ID,
		StoryIndex:      input.StoryIndex,
		RepairedContent: repaired,
		StoryCompleted:  s.IsComplete(),
		GameCompleted:   rec.Game.IsComplete(),
		Assignee:        s.Assignee(),
		Version:         rec.Version,
	}, nil
}
