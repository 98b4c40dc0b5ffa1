package ops

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/scrawl/internal/config"
	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
	"github.com/hpungsan/scrawl/internal/metrics"
	"github.com/hpungsan/scrawl/internal/notify"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Deps carries what the game commands need besides their input.
// Notifier and Logger may be nil.
type Deps struct {
	DB       *sql.DB
	Config   *config.Config
	Notifier notify.Notifier
	Logger   *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// command is one change to a loaded game. It returns the event to announce.
type command func(g *game.Game) (notify.Event, error)

// mutate loads the game, applies fn and writes the result back under the
// version it was read at. Nothing is stored when fn fails.
func mutate(ctx context.Context, d Deps, name, gameID string, fn command) (*db.GameRecord, error) {
	rec, err := apply(ctx, d, name, gameID, fn)
	metrics.ObserveCommand(name, err)

	logger := d.logger().With(zap.String("command", name), zap.String("game_id", gameID))
	if err != nil {
		logger.Info("command rejected", zap.Error(err))
		return nil, err
	}
	logger.Info("command applied", zap.Int64("version", rec.Version))
	return rec, nil
}

func apply(ctx context.Context, d Deps, name, gameID string, fn command) (*db.GameRecord, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}
	if ctx.Err() != nil {
		return nil, errors.NewCancelled(name)
	}

	rec, err := db.GetGame(ctx, d.DB, gameID, false)
	if err != nil {
		return nil, err
	}

	wasComplete := rec.Game.IsComplete()
	event, err := fn(rec.Game)
	if err != nil {
		return nil, err
	}
	if err := db.ReplaceGame(ctx, d.DB, rec); err != nil {
		return nil, err
	}

	event.GameID = rec.ID
	announce(ctx, d, rec.ID, event)
	if !wasComplete && rec.Game.IsComplete() {
		announce(ctx, d, rec.ID, notify.Event{Type: notify.EventGameCompleted, GameID: rec.ID})
	}
	return rec, nil
}

// announce sends event to every subscriber of the game. Failures are logged only.
func announce(ctx context.Context, d Deps, gameID string, event notify.Event) {
	if d.Notifier == nil {
		return
	}
	players, err := db.PlayersSubscribedToGame(ctx, d.DB, gameID)
	if err != nil {
		d.logger().Warn("subscriber lookup failed", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	notify.Broadcast(ctx, d.Notifier, d.logger(), players, event)
}

func requirePlayerID(playerID string) (string, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return "", errors.NewInvalidRequest("player_id is required")
	}
	return playerID, nil
}

func intPtr(i int) *int {
	return &i
}
