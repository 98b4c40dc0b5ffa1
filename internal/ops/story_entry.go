package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
)

// StoryEntryInput contains parameters for the StoryEntry operation.
type StoryEntryInput struct {
	GameID     string
	StoryIndex int
	EntryIndex int
}

// StoryEntryOutput contains the result of the StoryEntry operation.
type StoryEntryOutput struct {
	GameID     string `json:"game_id"`
	StoryIndex int    `json:"story_index"`
	EntryIndex int    `json:"entry_index"`
	Content    string `json:"content"`
}

// StoryEntry returns the current text of one entry: the repaired text once
// repaired, otherwise the text as written.
func StoryEntry(ctx context.Context, database *sql.DB, input StoryEntryInput) (*StoryEntryOutput, error) {
	id := strings.TrimSpace(input.GameID)
	if id == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}

	rec, err := db.GetGame(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	content, err := rec.Game.StoryEntry(input.StoryIndex, input.EntryIndex)
	if err != nil {
		return nil, err
	}

	return &StoryEntryOutput{
		GameID:     rec.ID,
		StoryIndex: input.StoryIndex,
		EntryIndex: input.EntryIndex,
		Content:    content,
	}, nil
}
