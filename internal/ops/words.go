package ops

import (
	"github.com/hpungsan/scrawl/internal/story"
)

// WordsInput contains parameters for the Words operation.
type WordsInput struct {
	Content string
}

// Word is one censorable word of the inspected text.
type Word struct {
	Index int         `json:"index"`
	Span  story.Range `json:"span"`
	Text  string      `json:"text"`
}

// WordsOutput contains the result of the Words operation.
type WordsOutput struct {
	Words   []Word `json:"words"`
	Blanked string `json:"blanked"`
}

// Words shows how text splits into censorable words and what it looks like
// with every word blanked.
func Words(input WordsInput) *WordsOutput {
	spans := story.CensorableWords(input.Content)
	words := make([]Word, 0, len(spans))
	for i, r := range spans {
		words = append(words, Word{Index: i, Span: r, Text: input.Content[r.Start:r.End]})
	}
	return &WordsOutput{
		Words:   words,
		Blanked: story.Blank(input.Content, spans),
	}
}
