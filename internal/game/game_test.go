package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/story"
)

const firstEntry = "This is the first entry."

var players = []string{"p1", "p2", "p3", "p4"}

func newStartedGame(t *testing.T, maxEntries int) *Game {
	t.Helper()
	g := New()
	for _, p := range players {
		require.NoError(t, g.Join(p))
	}
	require.NoError(t, g.Start(maxEntries))
	return g
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, code), "error = %v, want %s", err, code)
}

func TestScenario_SingleEntryStoryCompletes(t *testing.T) {
	g := newStartedGame(t, 1)

	index, err := g.StartStory("p1", firstEntry)
	require.NoError(t, err)
	require.Equal(t, 0, index)

	censored, err := g.CensorStory("p2", 0, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, "____ __ the first entry.", censored.CensoredContent)

	_, err = g.RepairStory("p3", 0, []string{"That", "was"})
	require.NoError(t, err)

	content, err := g.StoryEntry(0, 0)
	require.NoError(t, err)
	require.Equal(t, "That was the first entry.", content)
	require.True(t, g.Stories[0].IsComplete())
}

func TestJoin(t *testing.T) {
	g := New()
	requireCode(t, g.Join("  "), errors.ErrInvalidRequest)

	require.NoError(t, g.Join("p1"))
	require.NoError(t, g.Join("p1"))
	require.Equal(t, []string{"p1"}, g.PlayerIDs)

	started := newStartedGame(t, 1)
	requireCode(t, started.Join("p5"), errors.ErrGameAlreadyStarted)
	require.NoError(t, started.Join("p1"))
	require.Len(t, started.PlayerIDs, 4)
}

func TestStart(t *testing.T) {
	g := New()
	for _, p := range players[:3] {
		require.NoError(t, g.Join(p))
	}
	requireCode(t, g.Start(1), errors.ErrInvalidRequest)

	require.NoError(t, g.Join("p4"))
	requireCode(t, g.Start(0), errors.ErrInvalidRequest)
	require.False(t, g.Started)

	require.NoError(t, g.Start(3))
	require.Len(t, g.Stories, 4)
	require.Equal(t, 3, g.MaxStoryEntries)
	requireCode(t, g.Start(3), errors.ErrGameAlreadyStarted)
}

func TestStartStory(t *testing.T) {
	lobby := New()
	require.NoError(t, lobby.Join("p1"))
	_, err := lobby.StartStory("p1", firstEntry)
	requireCode(t, err, errors.ErrGameNotStarted)

	g := newStartedGame(t, 2)

	_, err = g.StartStory("p9", firstEntry)
	requireCode(t, err, errors.ErrNotInGame)

	_, err = g.StartStory("p3", "Once...")
	requireCode(t, err, errors.ErrInvalidRequest)
	require.Nil(t, g.Stories[2])

	index, err := g.StartStory("p3", "Once upon a time.")
	require.NoError(t, err)
	require.Equal(t, 2, index)
	require.Equal(t, "p4", g.Stories[2].Assignee())

	_, err = g.StartStory("p3", "Another story begins.")
	requireCode(t, err, errors.ErrConflict)
}

func TestStoryCommands_AuthorizationKinds(t *testing.T) {
	g := newStartedGame(t, 2)
	_, err := g.StartStory("p1", firstEntry)
	require.NoError(t, err)
	before, err := json.Marshal(g)
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		code errors.ErrorCode
	}{
		{"not in game", func() error {
			_, err := g.CensorStory("p9", 0, []int{0})
			return err
		}, errors.ErrNotInGame},
		{"not the assignee", func() error {
			_, err := g.CensorStory("p3", 0, []int{0})
			return err
		}, errors.ErrUnauthorizedStoryModification},
		{"assignee with the wrong action", func() error {
			_, err := g.RepairStory("p2", 0, []string{"x"})
			return err
		}, errors.ErrIncorrectStoryModification},
		{"continue while redaction pending", func() error {
			return g.ContinueStory("p2", 0, "More words here.")
		}, errors.ErrIncorrectStoryModification},
		{"empty story slot", func() error {
			_, err := g.TruncateStory("p2", 1, 1)
			return err
		}, errors.ErrNotFound},
		{"index out of range", func() error {
			_, err := g.CensorStory("p2", 7, []int{0})
			return err
		}, errors.ErrNotFound},
		{"truncation count too large", func() error {
			_, err := g.TruncateStory("p2", 0, MaxTruncationCount+1)
			return err
		}, errors.ErrInvalidRequest},
		{"truncation count zero", func() error {
			_, err := g.TruncateStory("p2", 0, 0)
			return err
		}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, tt.run(), tt.code)

			after, err := json.Marshal(g)
			require.NoError(t, err)
			require.JSONEq(t, string(before), string(after), "failed command mutated the game")
		})
	}
}

func TestTruncateStory_MaxCount(t *testing.T) {
	g := newStartedGame(t, 1)
	_, err := g.StartStory("p1", "one two three four five six seven eight nine")
	require.NoError(t, err)

	result, err := g.TruncateStory("p2", 0, MaxTruncationCount)
	require.NoError(t, err)
	require.Equal(t, 8, result.TruncateFrom)
	require.Equal(t, "one two ____________________________________", result.CensoredContent)
}

func TestContinueStory(t *testing.T) {
	g := newStartedGame(t, 2)
	_, err := g.StartStory("p1", firstEntry)
	require.NoError(t, err)
	_, err = g.TruncateStory("p2", 0, 1)
	require.NoError(t, err)
	_, err = g.RepairStory("p3", 0, []string{"ending."})
	require.NoError(t, err)

	requireCode(t, g.ContinueStory("p4", 0, "Hi."), errors.ErrInvalidRequest)
	require.Len(t, g.Stories[0].Entries, 1)

	require.NoError(t, g.ContinueStory("p4", 0, "And the story went on."))
	require.Len(t, g.Stories[0].Entries, 2)
	require.Equal(t, "p1", g.Stories[0].Assignee())

	content, err := g.StoryEntry(0, 1)
	require.NoError(t, err)
	require.Equal(t, "And the story went on.", content)

	_, err = g.StoryEntry(0, 2)
	requireCode(t, err, errors.ErrInvalidRequest)
}

func TestPlayerActivity_Lobby(t *testing.T) {
	g := New()
	require.NoError(t, g.Join("p1"))

	a, err := g.PlayerActivity("p1")
	require.NoError(t, err)
	require.Equal(t, AwaitingGameStart{}, a)

	_, err = g.PlayerActivity("p2")
	requireCode(t, err, errors.ErrNotInGame)
}

func TestPlayerActivity_Routing(t *testing.T) {
	g := newStartedGame(t, 2)

	for _, p := range players {
		a, err := g.PlayerActivity(p)
		require.NoError(t, err)
		require.Equal(t, StartingStory{}, a, p)
	}

	_, err := g.StartStory("p1", firstEntry)
	require.NoError(t, err)

	a, err := g.PlayerActivity("p1")
	require.NoError(t, err)
	require.Equal(t, AwaitingStory{}, a)

	a, err = g.PlayerActivity("p2")
	require.NoError(t, err)
	require.Equal(t, RedactingStory{
		StoryIndex:     0,
		Content:        firstEntry,
		WordBoundaries: []story.Range{{Start: 0, End: 4}, {Start: 5, End: 7}, {Start: 8, End: 11}, {Start: 12, End: 17}, {Start: 18, End: 23}},
	}, a)

	_, err = g.CensorStory("p2", 0, []int{0, 1})
	require.NoError(t, err)

	a, err = g.PlayerActivity("p2")
	require.NoError(t, err)
	require.Equal(t, StartingStory{}, a)

	a, err = g.PlayerActivity("p3")
	require.NoError(t, err)
	require.Equal(t, RepairingCensoredStory{
		StoryIndex: 0,
		Content:    "____ __ the first entry.",
		Censors:    []story.Range{{Start: 0, End: 4}, {Start: 5, End: 7}},
	}, a)

	_, err = g.RepairStory("p3", 0, []string{"That", "was"})
	require.NoError(t, err)

	a, err = g.PlayerActivity("p4")
	require.NoError(t, err)
	require.Equal(t, ContinuingStory{StoryIndex: 0, Content: "That was the first entry."}, a)
}

func TestPlayerActivity_RepairingTruncation(t *testing.T) {
	g := newStartedGame(t, 1)
	_, err := g.StartStory("p4", firstEntry)
	require.NoError(t, err)
	_, err = g.TruncateStory("p1", 3, 2)
	require.NoError(t, err)

	a, err := g.PlayerActivity("p2")
	require.NoError(t, err)
	require.Equal(t, RepairingTruncatedStory{
		StoryIndex:      3,
		Content:         "This is the ____________",
		TruncationIndex: 12,
	}, a)
}

func TestPlayerActivity_FirstAssignedStoryWins(t *testing.T) {
	g := newStartedGame(t, 1)

	_, err := g.StartStory("p1", firstEntry)
	require.NoError(t, err)
	_, err = g.CensorStory("p2", 0, []int{4})
	require.NoError(t, err)
	_, err = g.StartStory("p2", "A second story starts here.")
	require.NoError(t, err)

	// p3 now owes a repair on story 0 and a redaction on story 1.
	require.Equal(t, map[string]int{"p3": 0}, g.Assignments())

	a, err := g.PlayerActivity("p3")
	require.NoError(t, err)
	require.IsType(t, RepairingCensoredStory{}, a)

	_, err = g.RepairStory("p3", 0, []string{"line."})
	require.NoError(t, err)

	a, err = g.PlayerActivity("p3")
	require.NoError(t, err)
	index, ok := StoryIndexOf(a)
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.IsType(t, RedactingStory{}, a)
}

func playFullGame(t *testing.T, g *Game) {
	t.Helper()
	for i, author := range g.PlayerIDs {
		_, err := g.StartStory(author, firstEntry)
		require.NoError(t, err)

		redactor := story.NextPlayer(g.PlayerIDs, author)
		_, err = g.CensorStory(redactor, i, []int{3})
		require.NoError(t, err)

		repairer := story.NextPlayer(g.PlayerIDs, redactor)
		_, err = g.RepairStory(repairer, i, []string{"last"})
		require.NoError(t, err)
	}
}

func TestPlayerActivity_ReadingFinishedStories(t *testing.T) {
	g := newStartedGame(t, 1)

	_, err := g.FinishedStories()
	requireCode(t, err, errors.ErrInvalidRequest)

	playFullGame(t, g)
	require.True(t, g.IsComplete())

	for _, p := range players {
		a, err := g.PlayerActivity(p)
		require.NoError(t, err)

		reading, ok := a.(ReadingFinishedStories)
		require.True(t, ok, "%s activity = %#v", p, a)
		require.Len(t, reading.Stories, 4)
	}

	stories, err := g.FinishedStories()
	require.NoError(t, err)
	require.Equal(t, FinishedStory{
		StoryIndex: 1,
		Author:     "p2",
		Entries: []story.FinishedEntry{{
			Content:      "This is the last entry.",
			Censors:      []story.Range{{Start: 12, End: 16}},
			Contributors: []string{"p2", "p3", "p4"},
		}},
	}, stories[1])
}

func TestGame_JSONRoundTrip(t *testing.T) {
	g := newStartedGame(t, 2)
	_, err := g.StartStory("p2", firstEntry)
	require.NoError(t, err)
	_, err = g.TruncateStory("p3", 1, 1)
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded.Stories[0])

	for _, p := range players {
		want, err := g.PlayerActivity(p)
		require.NoError(t, err)
		got, err := decoded.PlayerActivity(p)
		require.NoError(t, err)
		require.Equal(t, want, got, p)
	}
}
