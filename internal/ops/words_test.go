package ops

import (
	"testing"

	"github.com/hpungsan/scrawl/internal/story"
)

func TestWords(t *testing.T) {
	out := Words(WordsInput{Content: "It's 'quoted' text."})

	want := []Word{
		{Index: 0, Span: story.Range{Start: 0, End: 4}, Text: "It's"},
		{Index: 1, Span: story.Range{Start: 6, End: 12}, Text: "quoted"},
		{Index: 2, Span: story.Range{Start: 14, End: 18}, Text: "text"},
	}
	if len(out.Words) != len(want) {
		t.Fatalf("Words = %+v, want %+v", out.Words, want)
	}
	for i := range want {
		if out.Words[i] != want[i] {
			t.Errorf("Words[%d] = %+v, want %+v", i, out.Words[i], want[i])
		}
	}
	if out.Blanked != "____ '______' ____." {
		t.Errorf("Blanked = %q", out.Blanked)
	}
}

func TestWords_NoWords(t *testing.T) {
	out := Words(WordsInput{Content: "... 42 !"})
	if out.Words == nil || len(out.Words) != 0 {
		t.Errorf("Words = %#v, want empty slice", out.Words)
	}
	if out.Blanked != "... 42 !" {
		t.Errorf("Blanked = %q", out.Blanked)
	}
}
