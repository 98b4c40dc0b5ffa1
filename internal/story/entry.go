package story

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hpungsan/scrawl/internal/errors"
)

// RedactionKind distinguishes censoring individual words from truncating the tail.
type RedactionKind string

const (
	RedactionCensor   RedactionKind = "censor"
	RedactionTruncate RedactionKind = "truncate"
)

// Entry is one author's contribution to a story together with its
// redaction and repair history.
//
// Lifecycle: created with NewEntry, redacted once by Censor or Truncate,
// repaired once by Repair, then frozen.
type Entry struct {
	// InitialContent is the text as authored. It never changes.
	InitialContent string `json:"initial_content"`

	// Contributors lists the creator, redactor and repairer, in that order.
	Contributors []string `json:"contributors"`

	// Kind is empty until the entry is redacted.
	Kind RedactionKind `json:"redaction,omitempty"`

	// Censors holds the censored word spans, or a single [from, len] span for
	// a truncation. After repair every span bounds its replacement text.
	Censors []Range `json:"censors,omitempty"`

	// FinalContent is set by Repair.
	FinalContent *string `json:"final_content,omitempty"`

	words []Range
}

// CensorResult is returned by Censor.
type CensorResult struct {
	CensoredContent string  `json:"censored_content"`
	Censors         []Range `json:"censors"`
}

// TruncateResult is returned by Truncate.
type TruncateResult struct {
	CensoredContent string `json:"censored_content"`
	TruncateFrom    int    `json:"truncate_from"`
}

// FinishedEntry is the read-only view of a repaired entry.
type FinishedEntry struct {
	Content      string   `json:"content"`
	Censors      []Range  `json:"censors"`
	Contributors []string `json:"contributors"`
}

// NewEntry creates an entry authored by creatorID.
func NewEntry(content, creatorID string) (*Entry, error) {
	words := CensorableWords(content)
	if len(words) == 0 {
		return nil, errors.NewInvalidRequest("Content is empty of meaningful words")
	}
	return &Entry{
		InitialContent: content,
		Contributors:   []string{creatorID},
		words:          words,
	}, nil
}

// WordBoundaries returns the censorable words of the initial content.
// The scan runs once and is cached on the entry.
func (e *Entry) WordBoundaries() []Range {
	if e.words == nil {
		e.words = CensorableWords(e.InitialContent)
	}
	return e.words
}

// IsRedacted reports whether Censor or Truncate has been applied.
func (e *Entry) IsRedacted() bool {
	return e.Kind != ""
}

// IsRepaired reports whether Repair has been applied.
func (e *Entry) IsRepaired() bool {
	return e.FinalContent != nil
}

// Content returns the repaired text when available, otherwise the initial text.
func (e *Entry) Content() string {
	if e.FinalContent != nil {
		return *e.FinalContent
	}
	return e.InitialContent
}

// CensoredContent returns the initial content with every redacted byte blanked.
func (e *Entry) CensoredContent() string {
	if !e.IsRedacted() {
		return e.InitialContent
	}
	return Blank(e.InitialContent, e.Censors)
}

// TruncateFrom returns the offset where a truncation starts, or -1 for
// entries that were not truncated.
func (e *Entry) TruncateFrom() int {
	if e.Kind != RedactionTruncate || len(e.Censors) == 0 {
		return -1
	}
	return e.Censors[0].Start
}

// Censor blanks the words at wordIndices. Indices refer to WordBoundaries and
// are applied in ascending order.
func (e *Entry) Censor(playerID string, wordIndices []int) (*CensorResult, error) {
	if e.IsRedacted() {
		return nil, errors.NewInvariantViolation("entry has already been redacted")
	}
	if len(wordIndices) == 0 {
		return nil, errors.NewInvalidRequest("at least one word must be censored")
	}

	words := e.WordBoundaries()
	sorted := slices.Clone(wordIndices)
	slices.Sort(sorted)

	censors := make([]Range, 0, len(sorted))
	for i, idx := range sorted {
		if idx < 0 || idx >= len(words) {
			return nil, errors.NewInvalidRequest(
				fmt.Sprintf("word index %d is out of bounds (entry has %d words)", idx, len(words)))
		}
		if i > 0 && sorted[i-1] == idx {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("word index %d is censored twice", idx))
		}
		censors = append(censors, words[idx])
	}

	e.Kind = RedactionCensor
	e.Censors = censors
	e.Contributors = append(e.Contributors, playerID)

	return &CensorResult{
		CensoredContent: e.CensoredContent(),
		Censors:         slices.Clone(censors),
	}, nil
}

// Truncate blanks everything from the start of the count-th word from the end.
// At least one word must survive the truncation.
func (e *Entry) Truncate(playerID string, count int) (*TruncateResult, error) {
	if e.IsRedacted() {
		return nil, errors.NewInvariantViolation("entry has already been redacted")
	}

	words := e.WordBoundaries()
	if len(words) < 2 {
		return nil, errors.NewInvalidRequest("entry has too few words to truncate")
	}
	if count < 1 || count >= len(words) {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("truncation count must be between 1 and %d", len(words)-1))
	}

	from := words[len(words)-count].Start

	e.Kind = RedactionTruncate
	e.Censors = []Range{{Start: from, End: len(e.InitialContent)}}
	e.Contributors = append(e.Contributors, playerID)

	return &TruncateResult{
		CensoredContent: e.CensoredContent(),
		TruncateFrom:    from,
	}, nil
}

// Repair fills in the redaction and returns the final content.
//
// A truncated entry takes exactly one replacement for its tail. A censored
// entry takes one replacement per censored word, in reading order.
func (e *Entry) Repair(playerID string, replacements []string) (string, error) {
	if !e.IsRedacted() {
		return "", errors.NewInvariantViolation("entry cannot be repaired before it is redacted")
	}
	if e.IsRepaired() {
		return "", errors.NewInvariantViolation("entry has already been repaired")
	}

	var (
		final string
		spans []Range
	)

	switch e.Kind {
	case RedactionTruncate:
		if len(replacements) != 1 {
			return "", errors.NewInvalidRequest(
				fmt.Sprintf("a truncated entry takes exactly 1 replacement, got %d", len(replacements)))
		}
		if !hasText(replacements[0]) {
			return "", errors.NewInvalidRequest("replacement must not be blank")
		}
		from := e.Censors[0].Start
		final = e.InitialContent[:from] + replacements[0]
		spans = []Range{{Start: from, End: len(final)}}

	case RedactionCensor:
		if len(replacements) != len(e.Censors) {
			return "", errors.NewInvalidRequest(
				fmt.Sprintf("expected %d replacements, got %d", len(e.Censors), len(replacements)))
		}
		for i, r := range replacements {
			if !hasText(r) {
				return "", errors.NewInvalidRequest(fmt.Sprintf("replacement %d must not be blank", i))
			}
		}
		final, spans = RepairSpans(e.InitialContent, e.Censors, replacements)

	default:
		return "", errors.NewInvariantViolation(fmt.Sprintf("unknown redaction kind %q", e.Kind))
	}

	e.FinalContent = &final
	e.Censors = spans
	e.Contributors = append(e.Contributors, playerID)

	return final, nil
}

// Finished returns the read-only view of a repaired entry.
func (e *Entry) Finished() (FinishedEntry, error) {
	if !e.IsRepaired() {
		return FinishedEntry{}, errors.NewInvariantViolation("entry has not been repaired")
	}
	return FinishedEntry{
		Content:      *e.FinalContent,
		Censors:      slices.Clone(e.Censors),
		Contributors: slices.Clone(e.Contributors),
	}, nil
}

// RepairSpans substitutes replacements[i] for spans[i] in content and returns
// the new content with spans re-pointed at the replacement text.
//
// spans must be sorted, non-overlapping and as long as replacements.
// Substitution runs from the last span to the first so earlier offsets stay
// valid; the second pass walks left to right carrying the length delta.
func RepairSpans(content string, spans []Range, replacements []string) (string, []Range) {
	var b strings.Builder
	b.Grow(len(content))

	out := content
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		b.Reset()
		b.WriteString(out[:s.Start])
		b.WriteString(replacements[i])
		b.WriteString(out[s.End:])
		out = b.String()
	}

	repaired := make([]Range, len(spans))
	delta := 0
	for i, s := range spans {
		start := s.Start + delta
		repaired[i] = Range{Start: start, End: start + len(replacements[i])}
		delta += len(replacements[i]) - s.Width()
	}

	return out, repaired
}
