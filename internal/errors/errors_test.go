package errors

import (
	"fmt"
	"testing"
)

func TestScrawlError_Error(t *testing.T) {
	err := &ScrawlError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "game not found",
	}

	expected := "NOT_FOUND: game not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("content is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "content is required" {
		t.Errorf("Message = %q, want %q", err.Message, "content is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HXYZ")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01HXYZ" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HXYZ")
	}
}

func TestNewStoryNotFound(t *testing.T) {
	err := NewStoryNotFound("g1", 3)

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["story_index"] != 3 {
		t.Errorf("Details[story_index] = %v, want 3", err.Details["story_index"])
	}
	if err.Details["game_id"] != "g1" {
		t.Errorf("Details[game_id] = %v, want g1", err.Details["game_id"])
	}
}

func TestAuthorizationKindsAreDistinct(t *testing.T) {
	notInGame := NewNotInGame("p9")
	unauthorized := NewUnauthorizedStoryModification("p3", 0)
	incorrect := NewIncorrectStoryModification(0, "repair", "redact")

	codes := map[ErrorCode]bool{
		notInGame.Code:    true,
		unauthorized.Code: true,
		incorrect.Code:    true,
	}
	if len(codes) != 3 {
		t.Fatalf("expected 3 distinct codes, got %v", codes)
	}

	if notInGame.Status != 403 || unauthorized.Status != 403 {
		t.Errorf("not-in-game/unauthorized status = %d/%d, want 403", notInGame.Status, unauthorized.Status)
	}
	if incorrect.Status != 409 {
		t.Errorf("incorrect stage status = %d, want 409", incorrect.Status)
	}
	if incorrect.Details["attempted"] != "repair" || incorrect.Details["required"] != "redact" {
		t.Errorf("Details = %v, want attempted=repair required=redact", incorrect.Details)
	}
}

func TestNewInvalidActivity(t *testing.T) {
	err := NewInvalidActivity("p2", "continue", "redact", "p3")

	if err.Code != ErrInvalidActivity {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidActivity)
	}
	for key, want := range map[string]string{
		"player_id": "p2",
		"attempted": "continue",
		"required":  "redact",
		"assignee":  "p3",
	} {
		if err.Details[key] != want {
			t.Errorf("Details[%s] = %v, want %q", key, err.Details[key], want)
		}
	}
}

func TestNewInvariantViolation(t *testing.T) {
	err := NewInvariantViolation("entry was never redacted")

	if err.Code != ErrInvariantViolation {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvariantViolation)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"with error", fmt.Errorf("disk full"), "disk full"},
		{"nil error", nil, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInternal(tt.err)
			if err.Code != ErrInternal {
				t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrConflict, false},
		{"wrapped", fmt.Errorf("load: %w", NewGameNotStarted()), ErrGameNotStarted, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	original := NewConflict("stale write")
	if got := As(fmt.Errorf("replace: %w", original)); got != original {
		t.Errorf("As() = %v, want original error", got)
	}

	plain := As(fmt.Errorf("boom"))
	if plain.Code != ErrInternal {
		t.Errorf("As(plain).Code = %q, want %q", plain.Code, ErrInternal)
	}
}
