package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/story"
)

func activityOf(t *testing.T, d Deps, gameID, player string) *PlayerActivityOutput {
	t.Helper()
	out, err := PlayerActivity(context.Background(), d.DB, PlayerActivityInput{GameID: gameID, PlayerID: player})
	require.NoError(t, err)
	return out
}

func TestStoryCommands_TruncateThenContinue(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDeps(t)
	id := startedGame(t, d, 2)

	started, err := StartStory(ctx, d, StartStoryInput{GameID: id, PlayerID: "p1", Content: openings[0]})
	require.NoError(t, err)
	require.Equal(t, 0, started.StoryIndex)
	require.Equal(t, "p2", started.Assignee)

	act := activityOf(t, d, id, "p2")
	require.Equal(t, game.KindRedactingStory, act.Kind)
	require.Equal(t, game.RedactingStory{
		StoryIndex:     0,
		Content:        "This is story one.",
		WordBoundaries: []story.Range{{Start: 0, End: 4}, {Start: 5, End: 7}, {Start: 8, End: 13}, {Start: 14, End: 17}},
	}, act.Activity)

	truncated, err := TruncateStory(ctx, d, TruncateStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, Count: 1})
	require.NoError(t, err)
	require.Equal(t, "This is story ____", truncated.CensoredContent)
	require.Equal(t, 14, truncated.TruncateFrom)
	require.Equal(t, "p3", truncated.Assignee)

	act = activityOf(t, d, id, "p3")
	require.JSONEq(t,
		`{"type":"repairing_truncated_story","story_index":0,"content":"This is story ____","truncation_index":14}`,
		string(act.Payload))

	repaired, err := RepairStory(ctx, d, RepairStoryInput{GameID: id, PlayerID: "p3", StoryIndex: 0, Replacements: []string{"two, then three."}})
	require.NoError(t, err)
	require.Equal(t, "This is story two, then three.", repaired.RepairedContent)
	require.False(t, repaired.StoryCompleted)
	require.Equal(t, "p4", repaired.Assignee)

	require.Equal(t, game.ContinuingStory{StoryIndex: 0, Content: "This is story two, then three."}, activityOf(t, d, id, "p4").Activity)

	continued, err := ContinueStory(ctx, d, ContinueStoryInput{GameID: id, PlayerID: "p4", StoryIndex: 0, Content: "A second entry appears."})
	require.NoError(t, err)
	require.Equal(t, 2, continued.Entries)
	require.Equal(t, "p1", continued.Assignee)

	// The redactor is shown the opening entry but censors the new one.
	act = activityOf(t, d, id, "p1")
	redacting, ok := act.Activity.(game.RedactingStory)
	require.True(t, ok, "activity = %#v", act.Activity)
	require.Equal(t, "This is story one.", redacting.Content)

	censored, err := CensorStory(ctx, d, CensorStoryInput{GameID: id, PlayerID: "p1", StoryIndex: 0, WordIndices: []int{1}})
	require.NoError(t, err)
	require.Equal(t, "A ______ entry appears.", censored.CensoredContent)
	require.Equal(t, []story.Range{{Start: 2, End: 8}}, censored.Censors)

	repaired, err = RepairStory(ctx, d, RepairStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, Replacements: []string{"third"}})
	require.NoError(t, err)
	require.Equal(t, "A third entry appears.", repaired.RepairedContent)
	require.True(t, repaired.StoryCompleted)
	require.False(t, repaired.GameCompleted)
	require.Empty(t, repaired.Assignee)

	for i, want := range []string{"This is story two, then three.", "A third entry appears."} {
		entry, err := StoryEntry(ctx, d.DB, StoryEntryInput{GameID: id, StoryIndex: 0, EntryIndex: i})
		require.NoError(t, err)
		require.Equal(t, want, entry.Content)
	}
	_, err = StoryEntry(ctx, d.DB, StoryEntryInput{GameID: id, StoryIndex: 0, EntryIndex: 2})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
	_, err = StoryEntry(ctx, d.DB, StoryEntryInput{GameID: id, StoryIndex: 1})
	require.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestStoryCommands_Errors(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDeps(t)
	id := startedGame(t, d, 1)
	startAllStories(t, d, id)

	tests := []struct {
		name string
		run  func() error
		want errors.ErrorCode
	}{
		{"start twice", func() error {
			_, err := StartStory(ctx, d, StartStoryInput{GameID: id, PlayerID: "p1", Content: "Another try here."})
			return err
		}, errors.ErrConflict},
		{"outsider censors", func() error {
			_, err := CensorStory(ctx, d, CensorStoryInput{GameID: id, PlayerID: "p9", StoryIndex: 0, WordIndices: []int{0}})
			return err
		}, errors.ErrNotInGame},
		{"wrong player censors", func() error {
			_, err := CensorStory(ctx, d, CensorStoryInput{GameID: id, PlayerID: "p3", StoryIndex: 0, WordIndices: []int{0}})
			return err
		}, errors.ErrUnauthorizedStoryModification},
		{"repair before redaction", func() error {
			_, err := RepairStory(ctx, d, RepairStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, Replacements: []string{"x"}})
			return err
		}, errors.ErrIncorrectStoryModification},
		{"truncate too much", func() error {
			_, err := TruncateStory(ctx, d, TruncateStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, Count: game.MaxTruncationCount + 1})
			return err
		}, errors.ErrInvalidRequest},
		{"truncate every word", func() error {
			_, err := TruncateStory(ctx, d, TruncateStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, Count: 4})
			return err
		}, errors.ErrInvalidRequest},
		{"censor out of range", func() error {
			_, err := CensorStory(ctx, d, CensorStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 0, WordIndices: []int{4}})
			return err
		}, errors.ErrInvalidRequest},
		{"unknown story", func() error {
			_, err := CensorStory(ctx, d, CensorStoryInput{GameID: id, PlayerID: "p2", StoryIndex: 7, WordIndices: []int{0}})
			return err
		}, errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.True(t, errors.Is(err, tt.want), "got %v, want %s", err, tt.want)
		})
	}
}

func TestPlayerActivity_BeforeStart(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDeps(t)

	created, err := CreateGame(ctx, d.DB, CreateGameInput{PlayerIDs: []string{"p1"}})
	require.NoError(t, err)

	out := activityOf(t, d, created.ID, "p1")
	require.Equal(t, game.KindAwaitingGameStart, out.Kind)
	require.JSONEq(t, `{"type":"awaiting_game_start"}`, string(out.Payload))

	_, err = PlayerActivity(ctx, d.DB, PlayerActivityInput{GameID: created.ID, PlayerID: "p2"})
	require.True(t, errors.Is(err, errors.ErrNotInGame), "got %v", err)

	_, err = PlayerActivity(ctx, d.DB, PlayerActivityInput{GameID: created.ID})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestPlayerActivity_StartingThenAwaiting(t *testing.T) {
	d, _ := newTestDeps(t)
	id := startedGame(t, d, 1)

	require.Equal(t, game.KindStartingStory, activityOf(t, d, id, "p3").Kind)

	_, err := StartStory(context.Background(), d, StartStoryInput{GameID: id, PlayerID: "p3", Content: openings[2]})
	require.NoError(t, err)
	require.Equal(t, game.KindAwaitingStory, activityOf(t, d, id, "p3").Kind)
	require.Equal(t, game.KindRedactingStory, activityOf(t, d, id, "p4").Kind)
}

func TestSubscribe_Errors(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDeps(t)
	id := startedGame(t, d, 1)

	_, err := Subscribe(ctx, d.DB, SubscribeInput{GameID: id, PlayerID: "p9"})
	require.True(t, errors.Is(err, errors.ErrNotInGame), "got %v", err)

	_, err = Subscribe(ctx, d.DB, SubscribeInput{GameID: "01UNKNOWN", PlayerID: "p1"})
	require.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)

	out, err := Subscribe(ctx, d.DB, SubscribeInput{GameID: id, PlayerID: "p1"})
	require.NoError(t, err)
	require.Equal(t, testPlayers, out.Subscribers)
}
