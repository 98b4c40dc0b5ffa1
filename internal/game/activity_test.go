package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/scrawl/internal/story"
)

type recordingVisitor struct {
	calls []string
}

func (r *recordingVisitor) AwaitingGameStart() { r.calls = append(r.calls, "awaiting-start") }
func (r *recordingVisitor) StartingStory()     { r.calls = append(r.calls, "starting") }
func (r *recordingVisitor) AwaitingStory()     { r.calls = append(r.calls, "awaiting") }

func (r *recordingVisitor) RedactingStory(content string, words []story.Range, storyIndex int) {
	r.calls = append(r.calls, fmt.Sprintf("redact %d %q %d", storyIndex, content, len(words)))
}

func (r *recordingVisitor) RepairingCensor(content string, censors []story.Range, storyIndex int) {
	r.calls = append(r.calls, fmt.Sprintf("censor %d %q %v", storyIndex, content, censors))
}

func (r *recordingVisitor) RepairingTruncation(content string, from int, storyIndex int) {
	r.calls = append(r.calls, fmt.Sprintf("truncate %d %q %d", storyIndex, content, from))
}

func (r *recordingVisitor) ContinuingStory(content string, storyIndex int) {
	r.calls = append(r.calls, fmt.Sprintf("continue %d %q", storyIndex, content))
}

func (r *recordingVisitor) ReadingFinishedStories(stories []FinishedStory) {
	r.calls = append(r.calls, fmt.Sprintf("reading %d", len(stories)))
}

func TestVisit(t *testing.T) {
	activities := []Activity{
		AwaitingGameStart{},
		StartingStory{},
		AwaitingStory{},
		RedactingStory{StoryIndex: 1, Content: "Hi there", WordBoundaries: []story.Range{{Start: 0, End: 2}, {Start: 3, End: 8}}},
		RepairingCensoredStory{StoryIndex: 2, Content: "__ there", Censors: []story.Range{{Start: 0, End: 2}}},
		RepairingTruncatedStory{StoryIndex: 3, Content: "Hi _____", TruncationIndex: 3},
		ContinuingStory{StoryIndex: 0, Content: "Hey there"},
		ReadingFinishedStories{Stories: make([]FinishedStory, 4)},
	}

	v := &recordingVisitor{}
	for _, a := range activities {
		Visit(a, v)
	}

	require.Equal(t, []string{
		"awaiting-start",
		"starting",
		"awaiting",
		`redact 1 "Hi there" 2`,
		`censor 2 "__ there" [{0 2}]`,
		`truncate 3 "Hi _____" 3`,
		`continue 0 "Hey there"`,
		"reading 4",
	}, v.calls)
}

func TestMarshalActivity(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		want     string
	}{
		{"awaiting start", AwaitingGameStart{}, `{"type":"awaiting_game_start"}`},
		{"awaiting story", AwaitingStory{}, `{"type":"awaiting_story"}`},
		{
			"redacting",
			RedactingStory{StoryIndex: 0, Content: "Hi there", WordBoundaries: []story.Range{{Start: 0, End: 2}, {Start: 3, End: 8}}},
			`{"type":"redacting_story","story_index":0,"content":"Hi there","word_boundaries":[[0,2],[3,8]]}`,
		},
		{
			"repairing truncation at zero",
			RepairingTruncatedStory{StoryIndex: 2, Content: "__", TruncationIndex: 0},
			`{"type":"repairing_truncated_story","story_index":2,"content":"__","truncation_index":0}`,
		},
		{
			"reading without stories",
			ReadingFinishedStories{},
			`{"type":"reading_finished_stories","stories":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalActivity(tt.activity)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestMarshalActivity_RejectsNil(t *testing.T) {
	_, err := MarshalActivity(nil)
	require.Error(t, err)
}

func TestActivityFor_CompletedNeedsNobody(t *testing.T) {
	_, ok := activityFor(0, story.CompletedStatus{})
	require.False(t, ok)
}
