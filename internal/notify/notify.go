package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/scrawl/internal/metrics"
)

// Event types pushed to players.
const (
	EventPlayerJoined   = "player_joined"
	EventGameStarted    = "game_started"
	EventStoryStarted   = "story_started"
	EventStoryCensored  = "story_censored"
	EventStoryTruncated = "story_truncated"
	EventStoryRepaired  = "story_repaired"
	EventStoryContinued = "story_continued"
	EventGameCompleted  = "game_completed"
)

// Event tells a player that a game they follow changed. Players re-query
// their activity on receipt; the event itself carries no game state.
type Event struct {
	Type       string `json:"type"`
	GameID     string `json:"game_id"`
	PlayerID   string `json:"player_id,omitempty"`
	StoryIndex *int   `json:"story_index,omitempty"`
}

// Notifier delivers events to one player.
type Notifier interface {
	NotifyPlayer(ctx context.Context, playerID string, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) NotifyPlayer(context.Context, string, Event) error { return nil }

// LogNotifier writes events to a logger instead of delivering them.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyPlayer(_ context.Context, playerID string, event Event) error {
	n.Logger.Debug("player notified",
		zap.String("player_id", playerID),
		zap.String("event", event.Type),
		zap.String("game_id", event.GameID),
	)
	return nil
}

// Fanout delivers every event through each notifier in turn and returns the
// first error after trying all of them.
type Fanout []Notifier

func (f Fanout) NotifyPlayer(ctx context.Context, playerID string, event Event) error {
	var first error
	for _, n := range f {
		if err := n.NotifyPlayer(ctx, playerID, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Broadcast sends event to every player. Delivery failures are logged and
// counted but never returned: a game change is final whether or not anyone
// heard about it.
func Broadcast(ctx context.Context, n Notifier, logger *zap.Logger, players []string, event Event) {
	if n == nil {
		return
	}
	for _, p := range players {
		err := n.NotifyPlayer(ctx, p, event)
		metrics.ObserveNotification(err)
		if err != nil && logger != nil {
			logger.Warn("notification failed",
				zap.String("player_id", p),
				zap.String("event", event.Type),
				zap.String("game_id", event.GameID),
				zap.Error(err),
			)
		}
	}
}
