package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/story"
)

const (
	// MinPlayers is the smallest roster a game can start with.
	MinPlayers = 4

	// MaxTruncationCount caps how many trailing words a single truncation removes.
	MaxTruncationCount = 7

	// MinStoryWords is the least a started or continued entry must contain.
	MinStoryWords = 2
)

// Game owns the roster and one story slot per player.
//
// Join order fixes the rotation. Stories[i] belongs to PlayerIDs[i] and is
// nil until that player starts it.
type Game struct {
	// ID is assigned by the store and is not part of the persisted state.
	ID string `json:"-"`

	PlayerIDs       []string       `json:"player_ids"`
	Started         bool           `json:"started"`
	MaxStoryEntries int            `json:"max_story_entries"`
	Stories         []*story.Story `json:"stories"`
}

// New returns an empty game waiting for players.
func New() *Game {
	return &Game{PlayerIDs: []string{}}
}

// HasPlayer reports whether playerID joined the game.
func (g *Game) HasPlayer(playerID string) bool {
	return slices.Contains(g.PlayerIDs, playerID)
}

// Join adds playerID to the roster. Joining twice is a no-op.
func (g *Game) Join(playerID string) error {
	if strings.TrimSpace(playerID) == "" {
		return errors.NewInvalidRequest("player_id is required")
	}
	if g.HasPlayer(playerID) {
		return nil
	}
	if g.Started {
		return errors.NewGameAlreadyStarted()
	}
	g.PlayerIDs = append(g.PlayerIDs, playerID)
	return nil
}

// Start closes the roster. Every story is capped at maxEntries entries.
func (g *Game) Start(maxEntries int) error {
	if g.Started {
		return errors.NewGameAlreadyStarted()
	}
	if len(g.PlayerIDs) < MinPlayers {
		return errors.NewInvalidRequest(
			fmt.Sprintf("a game needs at least %d players, has %d", MinPlayers, len(g.PlayerIDs)))
	}
	if maxEntries < 1 {
		return errors.NewInvalidRequest("max_story_entries must be at least 1")
	}

	g.Started = true
	g.MaxStoryEntries = maxEntries
	g.Stories = make([]*story.Story, len(g.PlayerIDs))
	return nil
}

// StartStory opens the story owned by playerID and returns its index.
func (g *Game) StartStory(playerID, content string) (int, error) {
	if err := g.requirePlayer(playerID); err != nil {
		return 0, err
	}

	index := slices.Index(g.PlayerIDs, playerID)
	if g.Stories[index] != nil {
		return 0, errors.NewConflict(fmt.Sprintf("player %q has already started a story", playerID))
	}
	if err := requireWords(content); err != nil {
		return 0, err
	}

	s, err := story.Start(content, playerID, g.PlayerIDs)
	if err != nil {
		return 0, err
	}
	g.Stories[index] = s
	return index, nil
}

// CensorStory blanks words of the story's open entry.
func (g *Game) CensorStory(playerID string, storyIndex int, wordIndices []int) (*story.CensorResult, error) {
	s, err := g.storyFor(playerID, storyIndex, story.ActionRedact)
	if err != nil {
		return nil, err
	}
	return s.Censor(playerID, wordIndices)
}

// TruncateStory blanks the last count words of the story's open entry.
func (g *Game) TruncateStory(playerID string, storyIndex, count int) (*story.TruncateResult, error) {
	s, err := g.storyFor(playerID, storyIndex, story.ActionRedact)
	if err != nil {
		return nil, err
	}
	if count < 1 || count > MaxTruncationCount {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("truncation count must be between 1 and %d", MaxTruncationCount))
	}
	return s.Truncate(playerID, count)
}

// RepairStory fills in the story's pending redaction.
func (g *Game) RepairStory(playerID string, storyIndex int, replacements []string) (string, error) {
	s, err := g.storyFor(playerID, storyIndex, story.ActionRepair)
	if err != nil {
		return "", err
	}
	return s.Repair(g.MaxStoryEntries, playerID, replacements)
}

// ContinueStory appends a new entry to the story.
func (g *Game) ContinueStory(playerID string, storyIndex int, content string) error {
	s, err := g.storyFor(playerID, storyIndex, story.ActionContinue)
	if err != nil {
		return err
	}
	if err := requireWords(content); err != nil {
		return err
	}
	return s.Continue(content, playerID)
}

// PlayerActivity answers what playerID has to do right now.
//
// Stories are scanned in index order and the first one assigned to the
// player wins. Without an assignment the player either still owes their own
// story, is done reading, or waits for others.
func (g *Game) PlayerActivity(playerID string) (Activity, error) {
	if !g.HasPlayer(playerID) {
		return nil, errors.NewNotInGame(playerID)
	}
	if !g.Started {
		return AwaitingGameStart{}, nil
	}

	for i, s := range g.Stories {
		if s == nil || s.Assignee() != playerID {
			continue
		}
		if a, ok := activityFor(i, s.Status); ok {
			return a, nil
		}
	}

	if g.Stories[slices.Index(g.PlayerIDs, playerID)] == nil {
		return StartingStory{}, nil
	}
	if g.IsComplete() {
		stories, err := g.FinishedStories()
		if err != nil {
			return nil, err
		}
		return ReadingFinishedStories{Stories: stories}, nil
	}
	return AwaitingStory{}, nil
}

// StoryEntry returns the current content of one entry.
func (g *Game) StoryEntry(storyIndex, entryIndex int) (string, error) {
	s, err := g.storyAt(storyIndex)
	if err != nil {
		return "", err
	}
	content, ok := s.EntryContent(entryIndex)
	if !ok {
		return "", errors.NewInvalidRequest(
			fmt.Sprintf("story %d has no entry %d", storyIndex, entryIndex))
	}
	return content, nil
}

// IsComplete reports whether every player's story reached its end.
func (g *Game) IsComplete() bool {
	if !g.Started {
		return false
	}
	for _, s := range g.Stories {
		if s == nil || !s.IsComplete() {
			return false
		}
	}
	return true
}

// FinishedStories returns the finished view of every story.
// It fails while any story is still in progress.
func (g *Game) FinishedStories() ([]FinishedStory, error) {
	if !g.IsComplete() {
		return nil, errors.NewInvalidRequest("stories are still in progress")
	}

	out := make([]FinishedStory, 0, len(g.Stories))
	for i, s := range g.Stories {
		entries, err := s.Finished()
		if err != nil {
			return nil, err
		}
		out = append(out, FinishedStory{
			StoryIndex: i,
			Author:     g.PlayerIDs[i],
			Entries:    entries,
		})
	}
	return out, nil
}

// Assignments maps every player who owes an action to the story index they
// owe it on.
func (g *Game) Assignments() map[string]int {
	out := make(map[string]int)
	for i, s := range g.Stories {
		if s == nil {
			continue
		}
		if p := s.Assignee(); p != "" {
			if _, seen := out[p]; !seen {
				out[p] = i
			}
		}
	}
	return out
}

func (g *Game) requirePlayer(playerID string) error {
	if !g.HasPlayer(playerID) {
		return errors.NewNotInGame(playerID)
	}
	if !g.Started {
		return errors.NewGameNotStarted()
	}
	return nil
}

func (g *Game) storyAt(storyIndex int) (*story.Story, error) {
	if storyIndex < 0 || storyIndex >= len(g.Stories) || g.Stories[storyIndex] == nil {
		return nil, errors.NewStoryNotFound(g.ID, storyIndex)
	}
	return g.Stories[storyIndex], nil
}

// storyFor resolves the story playerID wants to act on and checks that the
// story is waiting for them to perform want.
func (g *Game) storyFor(playerID string, storyIndex int, want story.Action) (*story.Story, error) {
	if err := g.requirePlayer(playerID); err != nil {
		return nil, err
	}
	s, err := g.storyAt(storyIndex)
	if err != nil {
		return nil, err
	}
	if s.Assignee() != playerID {
		return nil, errors.NewUnauthorizedStoryModification(playerID, storyIndex)
	}
	if s.Action() != want {
		return nil, errors.NewIncorrectStoryModification(storyIndex, string(want), string(s.Action()))
	}
	return s, nil
}

func requireWords(content string) error {
	if n := story.CountWords(content); n < MinStoryWords {
		return errors.NewInvalidRequest(
			fmt.Sprintf("an entry needs at least %d words, got %d", MinStoryWords, n))
	}
	return nil
}
