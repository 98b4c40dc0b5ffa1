package story

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hpungsan/scrawl/internal/errors"
)

// Story is a chain of entries and the turn state that decides who acts next.
//
// Only the last entry is ever open. Turns rotate through PlayerIDs, which is
// captured when the story starts and never changes afterwards.
type Story struct {
	Entries   []*Entry
	PlayerIDs []string
	Status    Status
}

// NextPlayer returns the player after current in rotation order, wrapping
// around at the end.
func NextPlayer(players []string, current string) string {
	i := slices.Index(players, current)
	return players[(i+1)%len(players)]
}

// Start creates a story whose first entry is authored by creatorID.
// The player after the creator is asked to redact it.
func Start(content, creatorID string, playerIDs []string) (*Story, error) {
	if !slices.Contains(playerIDs, creatorID) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("creator %q is not in the rotation", creatorID))
	}

	entry, err := NewEntry(content, creatorID)
	if err != nil {
		return nil, err
	}

	players := slices.Clone(playerIDs)
	return &Story{
		Entries:   []*Entry{entry},
		PlayerIDs: players,
		Status:    RedactStatus{PlayerID: NextPlayer(players, creatorID), EntryContent: content},
	}, nil
}

// Action returns what the story is waiting for.
func (s *Story) Action() Action {
	return ActionOf(s.Status)
}

// Assignee returns the player the story is waiting on.
func (s *Story) Assignee() string {
	return AssigneeOf(s.Status)
}

// IsComplete reports whether the story reached its terminal state.
func (s *Story) IsComplete() bool {
	_, ok := s.Status.(CompletedStatus)
	return ok
}

// OpenEntry returns the last entry, the only one still being worked on.
func (s *Story) OpenEntry() *Entry {
	return s.Entries[len(s.Entries)-1]
}

// Censor blanks words of the open entry.
func (s *Story) Censor(playerID string, wordIndices []int) (*CensorResult, error) {
	if err := s.authorize(playerID, ActionRedact); err != nil {
		return nil, err
	}

	result, err := s.OpenEntry().Censor(playerID, wordIndices)
	if err != nil {
		return nil, err
	}

	s.Status = RepairStatus{
		PlayerID: NextPlayer(s.PlayerIDs, playerID),
		Redaction: Redaction{
			Kind:            RedactionCensor,
			CensoredContent: result.CensoredContent,
			Censors:         result.Censors,
		},
	}
	return result, nil
}

// Truncate blanks the tail of the open entry.
func (s *Story) Truncate(playerID string, count int) (*TruncateResult, error) {
	if err := s.authorize(playerID, ActionRedact); err != nil {
		return nil, err
	}

	result, err := s.OpenEntry().Truncate(playerID, count)
	if err != nil {
		return nil, err
	}

	s.Status = RepairStatus{
		PlayerID: NextPlayer(s.PlayerIDs, playerID),
		Redaction: Redaction{
			Kind:            RedactionTruncate,
			CensoredContent: result.CensoredContent,
			From:            result.TruncateFrom,
		},
	}
	return result, nil
}

// Repair fills in the open entry's redaction. The story completes once it
// holds maxEntries entries, otherwise the next player may continue it.
func (s *Story) Repair(maxEntries int, playerID string, replacements []string) (string, error) {
	if err := s.authorize(playerID, ActionRepair); err != nil {
		return "", err
	}

	repaired, err := s.OpenEntry().Repair(playerID, replacements)
	if err != nil {
		return "", err
	}

	if len(s.Entries) >= maxEntries {
		s.Status = CompletedStatus{}
	} else {
		s.Status = ContinueStatus{
			PlayerID:        NextPlayer(s.PlayerIDs, playerID),
			RepairedContent: repaired,
		}
	}
	return repaired, nil
}

// Continue appends a new entry authored by playerID.
//
// The next redaction round is offered the first entry's original text, not
// the entry just appended: only the opening line is ever shown for redaction.
func (s *Story) Continue(content, playerID string) error {
	if err := s.authorize(playerID, ActionContinue); err != nil {
		return err
	}

	entry, err := NewEntry(content, playerID)
	if err != nil {
		return err
	}

	s.Entries = append(s.Entries, entry)
	s.Status = RedactStatus{
		PlayerID:     NextPlayer(s.PlayerIDs, playerID),
		EntryContent: s.Entries[0].InitialContent,
	}
	return nil
}

// Finished returns the finished view of every entry.
func (s *Story) Finished() ([]FinishedEntry, error) {
	finished := make([]FinishedEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		f, err := e.Finished()
		if err != nil {
			return nil, err
		}
		finished = append(finished, f)
	}
	return finished, nil
}

// EntryContent returns the current text of the entry at index.
func (s *Story) EntryContent(index int) (string, bool) {
	if index < 0 || index >= len(s.Entries) {
		return "", false
	}
	return s.Entries[index].Content(), true
}

// authorize checks that playerID is the assignee and attempted is the
// pending action. Both failures raise the same invalid-activity error.
func (s *Story) authorize(playerID string, attempted Action) error {
	required := s.Action()
	assignee := s.Assignee()
	if assignee != playerID || required != attempted {
		return errors.NewInvalidActivity(playerID, string(attempted), string(required), assignee)
	}
	return nil
}

type storyRecord struct {
	Entries   []*Entry     `json:"entries"`
	PlayerIDs []string     `json:"player_ids"`
	Status    statusRecord `json:"status"`
}

// MarshalJSON encodes the story with a tagged status.
func (s *Story) MarshalJSON() ([]byte, error) {
	return json.Marshal(storyRecord{
		Entries:   s.Entries,
		PlayerIDs: s.PlayerIDs,
		Status:    encodeStatus(s.Status),
	})
}

// UnmarshalJSON decodes a story written by MarshalJSON.
func (s *Story) UnmarshalJSON(data []byte) error {
	var rec storyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if len(rec.Entries) == 0 {
		return fmt.Errorf("story has no entries")
	}
	status, err := decodeStatus(rec.Status)
	if err != nil {
		return err
	}
	s.Entries = rec.Entries
	s.PlayerIDs = rec.PlayerIDs
	s.Status = status
	return nil
}
