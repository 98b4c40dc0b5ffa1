package story

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// Range is a half-open byte span [Start, End) into an entry's content.
// It encodes to JSON as a two-element array.
type Range struct {
	Start int
	End   int
}

// Width returns the number of bytes covered by the span.
func (r Range) Width() int {
	return r.End - r.Start
}

// MarshalJSON encodes the range as [start, end].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

// UnmarshalJSON decodes a [start, end] pair.
func (r *Range) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("range must be a [start, end] pair: %w", err)
	}
	if pair[0] > pair[1] {
		return fmt.Errorf("range start %d is after end %d", pair[0], pair[1])
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// NextWord finds the first censorable word at or after byte offset from.
//
// A word starts at an ASCII letter and runs through letters and apostrophes.
// When the byte just before the word is an apostrophe, the word was opened by
// a quote and trailing apostrophes are left out so the closing quote stays
// visible. Resuming at the End of the previous result walks the same words as
// a single pass over the content.
func NextWord(content string, from int) (Range, bool) {
	i := max(from, 0)
	for i < len(content) && !isLetter(content[i]) {
		i++
	}
	if i >= len(content) {
		return Range{}, false
	}

	start := i
	for i < len(content) && (isLetter(content[i]) || content[i] == '\'') {
		i++
	}
	end := i

	if start > 0 && content[start-1] == '\'' {
		for end > start && content[end-1] == '\'' {
			end--
		}
	}

	return Range{Start: start, End: end}, true
}

// Words lazily yields every censorable word in content, in order.
func Words(content string) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		from := 0
		for {
			r, ok := NextWord(content, from)
			if !ok || !yield(r) {
				return
			}
			from = r.End
		}
	}
}

// CensorableWords returns the spans of all censorable words in content.
// Empty or punctuation-only content yields nil.
func CensorableWords(content string) []Range {
	var words []Range
	for r := range Words(content) {
		words = append(words, r)
	}
	return words
}

// Blank replaces every byte covered by spans with an underscore.
// Spans are clamped to the content, so the result has the same length.
func Blank(content string, spans []Range) string {
	b := []byte(content)
	for _, s := range spans {
		for i := max(s.Start, 0); i < min(s.End, len(b)); i++ {
			b[i] = '_'
		}
	}
	return string(b)
}

// CountWords returns the number of censorable words in content.
func CountWords(content string) int {
	n := 0
	for range Words(content) {
		n++
	}
	return n
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// hasText reports whether s contains anything besides whitespace.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
