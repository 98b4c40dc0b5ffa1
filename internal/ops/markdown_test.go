package ops

import (
	"testing"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/story"
)

func TestEntryMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		spans   []story.Range
		want    string
	}{
		{"no spans", "Plain text.", nil, "Plain text."},
		{"leading span", "That was it.", []story.Range{{Start: 0, End: 4}}, "**That** was it."},
		{"two spans", "a bc d", []story.Range{{Start: 0, End: 1}, {Start: 5, End: 6}}, "**a** bc **d**"},
		{"escaped text", "a *b* c_d", []story.Range{{Start: 2, End: 5}}, `a **\*b\*** c\_d`},
		{"bad span skipped", "abc", []story.Range{{Start: 2, End: 9}}, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryMarkdown(tt.content, tt.spans); got != tt.want {
				t.Errorf("EntryMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoriesMarkdown(t *testing.T) {
	stories := []game.FinishedStory{{
		StoryIndex: 0,
		Author:     "p1",
		Entries: []story.FinishedEntry{{
			Content:      "That is story one.",
			Censors:      []story.Range{{Start: 0, End: 4}},
			Contributors: []string{"p1", "p2", "p3"},
		}},
	}}

	want := "# Game g1\n" +
		"\n## Story 1 by p1\n" +
		"\n**That** is story one.\n" +
		"\n> written by p1, redacted by p2, repaired by p3\n"
	if got := StoriesMarkdown("g1", stories); got != want {
		t.Errorf("StoriesMarkdown() =\n%s\nwant\n%s", got, want)
	}
}
