package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/game"
)

// GameRecord is a stored game together with its bookkeeping columns.
type GameRecord struct {
	ID        string
	Game      *game.Game
	Version   int64
	CreatedAt int64
	UpdatedAt int64
	DeletedAt *int64
}

// GameSummary is a list row. It never loads the game state.
type GameSummary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"player_count"`
	Started     bool   `json:"started"`
	Completed   bool   `json:"completed"`
	Version     int64  `json:"version"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	DeletedAt   *int64 `json:"deleted_at,omitempty"`
}

// NewID returns a fresh ULID.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// AddGame stores a new game and assigns its id.
func AddGame(ctx context.Context, db *sql.DB, g *game.Game) (*GameRecord, error) {
	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	state, err := json.Marshal(g)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	query := `
		INSERT INTO games (
			id, state_json, version, player_count, started, completed,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, 1, ?, ?, ?, ?, ?, NULL)
	`
	_, err = db.ExecContext(ctx, query,
		id, string(state), len(g.PlayerIDs), g.Started, g.IsComplete(), now, now,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	g.ID = id
	return &GameRecord{
		ID:        id,
		Game:      g,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetGame loads a game by id.
// If includeDeleted is false, soft-deleted games are excluded.
func GetGame(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*GameRecord, error) {
	query := `
		SELECT id, state_json, version, created_at, updated_at, deleted_at
		FROM games
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	rec, err := scanGame(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

// ReplaceGame writes rec.Game back over the stored state.
//
// The write only lands if the stored version still equals rec.Version, so
// two commands racing on the same game cannot both succeed. The loser gets
// CONFLICT and should reload. On success rec.Version is bumped.
func ReplaceGame(ctx context.Context, db *sql.DB, rec *GameRecord) error {
	state, err := json.Marshal(rec.Game)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	query := `
		UPDATE games
		SET state_json = ?, version = version + 1, player_count = ?,
			started = ?, completed = ?, updated_at = ?
		WHERE id = ? AND version = ? AND deleted_at IS NULL
	`
	result, err := db.ExecContext(ctx, query,
		string(state), len(rec.Game.PlayerIDs), rec.Game.Started, rec.Game.IsComplete(), now,
		rec.ID, rec.Version,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		// Distinguish a vanished game from a stale version
		if _, err := GetGame(ctx, db, rec.ID, false); err != nil {
			return err
		}
		return errors.NewConflict("game was modified concurrently; reload and retry")
	}

	rec.Version++
	rec.UpdatedAt = now
	return nil
}

// ListGames returns game summaries ordered by most recent update.
func ListGames(ctx context.Context, db *sql.DB, limit, offset int, includeDeleted bool) ([]GameSummary, int, error) {
	where := " WHERE deleted_at IS NULL"
	if includeDeleted {
		where = ""
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games"+where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, player_count, started, completed, version, created_at, updated_at, deleted_at
		FROM games` + where + `
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []GameSummary
	for rows.Next() {
		var (
			s         GameSummary
			deletedAt sql.NullInt64
		)
		if err := rows.Scan(
			&s.ID, &s.PlayerCount, &s.Started, &s.Completed, &s.Version,
			&s.CreatedAt, &s.UpdatedAt, &deletedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.DeletedAt = fromNullInt64(deletedAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// SoftDeleteGame marks a game as deleted by setting deleted_at.
func SoftDeleteGame(ctx context.Context, db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE games
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	result, err := db.ExecContext(ctx, query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// PurgeDeletedGames permanently removes soft-deleted games and their
// subscriptions. With olderThanDays set, only games deleted before that
// cutoff are removed.
func PurgeDeletedGames(ctx context.Context, db *sql.DB, olderThanDays *int) (int, error) {
	where := "deleted_at IS NOT NULL"
	var args []any
	if olderThanDays != nil {
		cutoff := time.Now().Add(-time.Duration(*olderThanDays) * 24 * time.Hour).Unix()
		where += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE game_id IN (SELECT id FROM games WHERE "+where+")", args...,
	); err != nil {
		return 0, errors.NewInternal(err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM games WHERE "+where, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(purged), nil
}

// Subscribe records that playerID wants events for gameID.
// Subscribing twice is a no-op.
func Subscribe(ctx context.Context, db *sql.DB, gameID, playerID string) error {
	query := `
		INSERT OR IGNORE INTO subscriptions (game_id, player_id, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, gameID, playerID, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// PlayersSubscribedToGame returns the subscribers of gameID in subscription order.
func PlayersSubscribedToGame(ctx context.Context, db *sql.DB, gameID string) ([]string, error) {
	query := `
		SELECT player_id FROM subscriptions
		WHERE game_id = ?
		ORDER BY created_at, rowid
	`
	rows, err := db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	players := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errors.NewInternal(err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return players, nil
}

// scanGame scans a single row into a GameRecord and decodes the state.
func scanGame(row *sql.Row) (*GameRecord, error) {
	var (
		rec       GameRecord
		state     string
		deletedAt sql.NullInt64
	)

	if err := row.Scan(&rec.ID, &state, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	rec.DeletedAt = fromNullInt64(deletedAt)

	g := &game.Game{}
	if err := json.Unmarshal([]byte(state), g); err != nil {
		return nil, err
	}
	g.ID = rec.ID
	rec.Game = g

	return &rec, nil
}

// fromNullInt64 converts a sql.NullInt64 to *int64.
func fromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
