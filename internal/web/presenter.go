package web

import (
	"html/template"

	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/ops"
	"github.com/hpungsan/scrawl/internal/story"
)

// ActivityView is everything the activity template needs for one player.
// Action names the form to show; it is empty when the player only waits.
type ActivityView struct {
	Kind       string
	Heading    string
	Prompt     string
	Action     string
	StoryIndex int
	Content    string

	// Redacting
	Words       []WordChoice
	MaxTruncate int

	// Repairing a censor
	Blanks []Blank

	// Repairing a truncation
	Kept string

	// Reading
	StoriesHTML template.HTML
}

// WordChoice is a censorable word offered as a checkbox.
type WordChoice struct {
	Index int
	Text  string
}

// Blank is one censored span awaiting a replacement.
type Blank struct {
	Index int
	Shown string
}

// presenter builds an ActivityView by visiting a game.Activity.
type presenter struct {
	gameID string
	view   ActivityView
}

var _ game.Visitor = (*presenter)(nil)

// presentActivity renders a to a view for the given game.
func presentActivity(gameID string, a game.Activity) ActivityView {
	p := &presenter{gameID: gameID, view: ActivityView{Kind: game.Kind(a)}}
	game.Visit(a, p)
	return p.view
}

func (p *presenter) AwaitingGameStart() {
	p.view.Heading = "Waiting for the game to start"
	p.view.Prompt = "Once everyone has joined, the game can be started."
}

func (p *presenter) StartingStory() {
	p.view.Heading = "Start your story"
	p.view.Prompt = "Write the opening of a story. The next player will redact part of it."
	p.view.Action = "start"
}

func (p *presenter) AwaitingStory() {
	p.view.Heading = "Waiting for the other players"
	p.view.Prompt = "Nothing to do right now. This page updates when a story reaches you."
}

func (p *presenter) RedactingStory(content string, wordBoundaries []story.Range, storyIndex int) {
	p.view.Heading = "Redact the story"
	p.view.Prompt = "Censor some words, or cut off the end of the entry. " +
		"Word numbers count within the newest entry of the story."
	p.view.Action = "redact"
	p.view.StoryIndex = storyIndex
	p.view.Content = content

	p.view.Words = make([]WordChoice, 0, len(wordBoundaries))
	for i, r := range wordBoundaries {
		p.view.Words = append(p.view.Words, WordChoice{Index: i, Text: content[r.Start:r.End]})
	}
	p.view.MaxTruncate = min(game.MaxTruncationCount, len(wordBoundaries)-1)
}

func (p *presenter) RepairingCensor(content string, censors []story.Range, storyIndex int) {
	p.view.Heading = "Repair the story"
	p.view.Prompt = "Fill in every blank."
	p.view.Action = "repair"
	p.view.StoryIndex = storyIndex
	p.view.Content = content

	p.view.Blanks = make([]Blank, 0, len(censors))
	for i, r := range censors {
		p.view.Blanks = append(p.view.Blanks, Blank{Index: i, Shown: content[r.Start:r.End]})
	}
}

func (p *presenter) RepairingTruncation(content string, truncatedFrom int, storyIndex int) {
	p.view.Heading = "Finish the story"
	p.view.Prompt = "The end of this entry was cut off. Write a new ending."
	p.view.Action = "repair"
	p.view.StoryIndex = storyIndex
	p.view.Content = content
	p.view.Kept = content[:min(truncatedFrom, len(content))]
}

func (p *presenter) ContinuingStory(content string, storyIndex int) {
	p.view.Heading = "Continue the story"
	p.view.Prompt = "Here is the latest entry. Write what happens next."
	p.view.Action = "continue"
	p.view.StoryIndex = storyIndex
	p.view.Content = content
}

func (p *presenter) ReadingFinishedStories(stories []game.FinishedStory) {
	p.view.Heading = "The stories are finished"
	p.view.StoriesHTML = renderMarkdown(ops.StoriesMarkdown(p.gameID, stories))
}
