package game

import (
	"encoding/json"
	"fmt"

	"github.com/hpungsan/scrawl/internal/story"
)

// Activity is what a player has to do right now. It is derived from game
// state on every query and never stored.
//
// The variants are AwaitingGameStart, StartingStory, AwaitingStory,
// RedactingStory, RepairingCensoredStory, RepairingTruncatedStory,
// ContinuingStory and ReadingFinishedStories.
type Activity interface {
	isActivity()
}

type AwaitingGameStart struct{}

type StartingStory struct{}

type AwaitingStory struct{}

// RedactingStory asks the player to censor or truncate Content.
type RedactingStory struct {
	StoryIndex     int
	Content        string
	WordBoundaries []story.Range
}

// RepairingCensoredStory asks the player to fill in each censor span.
type RepairingCensoredStory struct {
	StoryIndex int
	Content    string
	Censors    []story.Range
}

// RepairingTruncatedStory asks the player to write a new ending from
// TruncationIndex onwards.
type RepairingTruncatedStory struct {
	StoryIndex      int
	Content         string
	TruncationIndex int
}

// ContinuingStory asks the player to append an entry after Content.
type ContinuingStory struct {
	StoryIndex int
	Content    string
}

type ReadingFinishedStories struct {
	Stories []FinishedStory
}

func (AwaitingGameStart) isActivity()       {}
func (StartingStory) isActivity()           {}
func (AwaitingStory) isActivity()           {}
func (RedactingStory) isActivity()          {}
func (RepairingCensoredStory) isActivity()  {}
func (RepairingTruncatedStory) isActivity() {}
func (ContinuingStory) isActivity()         {}
func (ReadingFinishedStories) isActivity()  {}

// FinishedStory is one complete story as read at the end of a game.
type FinishedStory struct {
	StoryIndex int                   `json:"story_index"`
	Author     string                `json:"author"`
	Entries    []story.FinishedEntry `json:"entries"`
}

// Visitor renders activities. Each method receives one variant's payload.
type Visitor interface {
	AwaitingGameStart()
	StartingStory()
	AwaitingStory()
	RedactingStory(content string, wordBoundaries []story.Range, storyIndex int)
	RepairingCensor(content string, censors []story.Range, storyIndex int)
	RepairingTruncation(content string, truncatedFrom int, storyIndex int)
	ContinuingStory(content string, storyIndex int)
	ReadingFinishedStories(stories []FinishedStory)
}

// Visit calls the Visitor method matching a.
func Visit(a Activity, v Visitor) {
	switch a := a.(type) {
	case AwaitingGameStart:
		v.AwaitingGameStart()
	case StartingStory:
		v.StartingStory()
	case AwaitingStory:
		v.AwaitingStory()
	case RedactingStory:
		v.RedactingStory(a.Content, a.WordBoundaries, a.StoryIndex)
	case RepairingCensoredStory:
		v.RepairingCensor(a.Content, a.Censors, a.StoryIndex)
	case RepairingTruncatedStory:
		v.RepairingTruncation(a.Content, a.TruncationIndex, a.StoryIndex)
	case ContinuingStory:
		v.ContinuingStory(a.Content, a.StoryIndex)
	case ReadingFinishedStories:
		v.ReadingFinishedStories(a.Stories)
	}
}

// Activity kinds as they appear on the wire.
const (
	KindAwaitingGameStart       = "awaiting_game_start"
	KindStartingStory           = "starting_story"
	KindAwaitingStory           = "awaiting_story"
	KindRedactingStory          = "redacting_story"
	KindRepairingCensoredStory  = "repairing_censored_story"
	KindRepairingTruncatedStory = "repairing_truncated_story"
	KindContinuingStory         = "continuing_story"
	KindReadingFinishedStories  = "reading_finished_stories"
)

// Kind returns the wire name of a.
func Kind(a Activity) string {
	switch a.(type) {
	case AwaitingGameStart:
		return KindAwaitingGameStart
	case StartingStory:
		return KindStartingStory
	case AwaitingStory:
		return KindAwaitingStory
	case RedactingStory:
		return KindRedactingStory
	case RepairingCensoredStory:
		return KindRepairingCensoredStory
	case RepairingTruncatedStory:
		return KindRepairingTruncatedStory
	case ContinuingStory:
		return KindContinuingStory
	case ReadingFinishedStories:
		return KindReadingFinishedStories
	default:
		return ""
	}
}

// StoryIndexOf returns the story an activity refers to, if any.
func StoryIndexOf(a Activity) (int, bool) {
	switch a := a.(type) {
	case RedactingStory:
		return a.StoryIndex, true
	case RepairingCensoredStory:
		return a.StoryIndex, true
	case RepairingTruncatedStory:
		return a.StoryIndex, true
	case ContinuingStory:
		return a.StoryIndex, true
	default:
		return 0, false
	}
}

type activityRecord struct {
	Type            string           `json:"type"`
	StoryIndex      *int             `json:"story_index,omitempty"`
	Content         string           `json:"content,omitempty"`
	WordBoundaries  []story.Range    `json:"word_boundaries,omitempty"`
	Censors         []story.Range    `json:"censors,omitempty"`
	TruncationIndex *int             `json:"truncation_index,omitempty"`
	Stories         *[]FinishedStory `json:"stories,omitempty"`
}

// MarshalActivity encodes a as {"type": kind, ...payload}.
func MarshalActivity(a Activity) ([]byte, error) {
	rec := activityRecord{Type: Kind(a)}
	if rec.Type == "" {
		return nil, fmt.Errorf("unknown activity %T", a)
	}
	if i, ok := StoryIndexOf(a); ok {
		rec.StoryIndex = &i
	}

	switch a := a.(type) {
	case RedactingStory:
		rec.Content = a.Content
		rec.WordBoundaries = a.WordBoundaries
	case RepairingCensoredStory:
		rec.Content = a.Content
		rec.Censors = a.Censors
	case RepairingTruncatedStory:
		rec.Content = a.Content
		from := a.TruncationIndex
		rec.TruncationIndex = &from
	case ContinuingStory:
		rec.Content = a.Content
	case ReadingFinishedStories:
		stories := a.Stories
		if stories == nil {
			stories = []FinishedStory{}
		}
		rec.Stories = &stories
	}
	return json.Marshal(rec)
}

// activityFor presents a story status as the assignee's activity.
// Completed stories need nobody and report false.
func activityFor(storyIndex int, status story.Status) (Activity, bool) {
	switch st := status.(type) {
	case story.RedactStatus:
		return RedactingStory{
			StoryIndex:     storyIndex,
			Content:        st.EntryContent,
			WordBoundaries: story.CensorableWords(st.EntryContent),
		}, true
	case story.RepairStatus:
		if st.Redaction.Kind == story.RedactionTruncate {
			return RepairingTruncatedStory{
				StoryIndex:      storyIndex,
				Content:         st.Redaction.CensoredContent,
				TruncationIndex: st.Redaction.From,
			}, true
		}
		return RepairingCensoredStory{
			StoryIndex: storyIndex,
			Content:    st.Redaction.CensoredContent,
			Censors:    st.Redaction.Censors,
		}, true
	case story.ContinueStatus:
		return ContinuingStory{StoryIndex: storyIndex, Content: st.RepairedContent}, true
	default:
		return nil, false
	}
}
