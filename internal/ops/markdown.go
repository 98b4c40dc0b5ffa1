package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/story"
)

var contributorRoles = []string{"written", "redacted", "repaired"}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `#`, `\#`,
)

// StoriesMarkdown renders finished stories as a Markdown document. Repaired
// spans are set in bold so readers can see what changed.
func StoriesMarkdown(gameID string, stories []game.FinishedStory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Game %s\n", markdownEscaper.Replace(gameID))

	for _, s := range stories {
		fmt.Fprintf(&b, "\n## Story %d by %s\n", s.StoryIndex+1, markdownEscaper.Replace(s.Author))
		for _, e := range s.Entries {
			b.WriteString("\n")
			b.WriteString(EntryMarkdown(e.Content, e.Censors))
			b.WriteString("\n")
			if line := contributorLine(e.Contributors); line != "" {
				b.WriteString("\n> ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// EntryMarkdown escapes content and wraps each span in bold markers.
// Spans must be ascending and lie within content.
func EntryMarkdown(content string, spans []story.Range) string {
	var b strings.Builder
	at := 0
	for _, r := range spans {
		if r.Start < at || r.End > len(content) || r.Width() <= 0 {
			continue
		}
		b.WriteString(markdownEscaper.Replace(content[at:r.Start]))
		b.WriteString("**")
		b.WriteString(markdownEscaper.Replace(content[r.Start:r.End]))
		b.WriteString("**")
		at = r.End
	}
	b.WriteString(markdownEscaper.Replace(content[at:]))
	return b.String()
}

func contributorLine(contributors []string) string {
	parts := make([]string, 0, len(contributors))
	for i, c := range contributors {
		role := "edited"
		if i < len(contributorRoles) {
			role = contributorRoles[i]
		}
		parts = append(parts, role+" by "+markdownEscaper.Replace(c))
	}
	return strings.Join(parts, ", ")
}
