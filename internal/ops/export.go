package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hpungsan/scrawl/internal/config"
	"github.com/hpungsan/scrawl/internal/db"
	"github.com/hpungsan/scrawl/internal/errors"
)

// ExportStoriesInput contains parameters for the ExportStories operation.
type ExportStoriesInput struct {
	GameID string
	Path   string // optional, default: ~/.scrawl/exports/<game>-<timestamp>.md
}

// ExportStoriesOutput contains the result of the ExportStories operation.
type ExportStoriesOutput struct {
	Path       string `json:"path"`
	GameID     string `json:"game_id"`
	Stories    int    `json:"stories"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportStories writes the finished stories of a completed game to a
// Markdown file.
func ExportStories(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportStoriesInput) (*ExportStoriesOutput, error) {
	id := strings.TrimSpace(input.GameID)
	if id == "" {
		return nil, errors.NewInvalidRequest("game_id is required")
	}

	rec, err := db.GetGame(ctx, database, id, false)
	if err != nil {
		return nil, err
	}
	stories, err := rec.Game.FinishedStories()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(rec.ID, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too, since they embed the game id.
	if err := ValidatePath(exportPath, cfg); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, errors.NewCancelled("export")
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}
	if err := writeFileAtomic(exportPath, []byte(StoriesMarkdown(rec.ID, stories))); err != nil {
		return nil, err
	}

	return &ExportStoriesOutput{
		Path:       exportPath,
		GameID:     rec.ID,
		Stories:    len(stories),
		ExportedAt: now.Unix(),
	}, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so an existing file survives a failed export.
func writeFileAtomic(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath returns ~/.scrawl/exports/<game>-<timestamp>.md.
func defaultExportPath(gameID string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s-%s%s", SanitizeForFilename(gameID), now.Format("2006-01-02T150405"), ExportExt)
	return filepath.Join(dir, filename), nil
}
