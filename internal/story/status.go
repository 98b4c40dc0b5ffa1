package story

import (
	"fmt"
)

// Action names what a story is waiting for.
type Action string

const (
	ActionRedact   Action = "redact"
	ActionRepair   Action = "repair"
	ActionContinue Action = "continue"
	ActionComplete Action = "complete"
)

// Status is the turn state of a story. It is one of RedactStatus,
// RepairStatus, ContinueStatus or CompletedStatus.
type Status interface {
	isStatus()
}

// RedactStatus waits for PlayerID to censor or truncate EntryContent.
type RedactStatus struct {
	PlayerID     string
	EntryContent string
}

// RepairStatus waits for PlayerID to fill in Redaction.
type RepairStatus struct {
	PlayerID  string
	Redaction Redaction
}

// ContinueStatus waits for PlayerID to append a new entry.
type ContinueStatus struct {
	PlayerID        string
	RepairedContent string
}

// CompletedStatus is terminal.
type CompletedStatus struct{}

func (RedactStatus) isStatus()    {}
func (RepairStatus) isStatus()    {}
func (ContinueStatus) isStatus()  {}
func (CompletedStatus) isStatus() {}

// Redaction describes what the repairing player sees.
// Censors is set for censor redactions, From for truncations.
type Redaction struct {
	Kind            RedactionKind `json:"kind"`
	CensoredContent string        `json:"censored_content"`
	Censors         []Range       `json:"censors,omitempty"`
	From            int           `json:"from,omitempty"`
}

// ActionOf returns the action a status is waiting for.
func ActionOf(s Status) Action {
	switch s.(type) {
	case RedactStatus:
		return ActionRedact
	case RepairStatus:
		return ActionRepair
	case ContinueStatus:
		return ActionContinue
	default:
		return ActionComplete
	}
}

// AssigneeOf returns the player a status is waiting on, or "" when completed.
func AssigneeOf(s Status) string {
	switch st := s.(type) {
	case RedactStatus:
		return st.PlayerID
	case RepairStatus:
		return st.PlayerID
	case ContinueStatus:
		return st.PlayerID
	default:
		return ""
	}
}

// statusRecord is the persisted form of a Status.
type statusRecord struct {
	Action          Action     `json:"action"`
	PlayerID        string     `json:"player_id,omitempty"`
	EntryContent    string     `json:"entry_content,omitempty"`
	Redaction       *Redaction `json:"redaction,omitempty"`
	RepairedContent string     `json:"repaired_content,omitempty"`
}

func encodeStatus(s Status) statusRecord {
	switch st := s.(type) {
	case RedactStatus:
		return statusRecord{Action: ActionRedact, PlayerID: st.PlayerID, EntryContent: st.EntryContent}
	case RepairStatus:
		r := st.Redaction
		return statusRecord{Action: ActionRepair, PlayerID: st.PlayerID, Redaction: &r}
	case ContinueStatus:
		return statusRecord{Action: ActionContinue, PlayerID: st.PlayerID, RepairedContent: st.RepairedContent}
	default:
		return statusRecord{Action: ActionComplete}
	}
}

func decodeStatus(rec statusRecord) (Status, error) {
	switch rec.Action {
	case ActionRedact:
		return RedactStatus{PlayerID: rec.PlayerID, EntryContent: rec.EntryContent}, nil
	case ActionRepair:
		if rec.Redaction == nil {
			return nil, fmt.Errorf("repair status without redaction")
		}
		return RepairStatus{PlayerID: rec.PlayerID, Redaction: *rec.Redaction}, nil
	case ActionContinue:
		return ContinueStatus{PlayerID: rec.PlayerID, RepairedContent: rec.RepairedContent}, nil
	case ActionComplete:
		return CompletedStatus{}, nil
	default:
		return nil, fmt.Errorf("unknown story action %q", rec.Action)
	}
}
