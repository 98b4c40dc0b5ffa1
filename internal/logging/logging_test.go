package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrawl.log")

	logger, err := New(Config{Level: "debug", Encoding: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("game started", zap.String("game_id", "g1"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if line["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", line["level"])
	}
	if line["game_id"] != "g1" {
		t.Errorf("game_id = %v, want g1", line["game_id"])
	}
	if _, ok := line["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"WARN", false},
		{"", false},
		{"loud", false},
	}

	for _, tt := range tests {
		logger, err := New(Config{Level: tt.level, Encoding: "yaml", OutputPath: filepath.Join(t.TempDir(), "x.log")})
		if err != nil {
			t.Fatalf("New(%q) error = %v", tt.level, err)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
			t.Errorf("level %q: debug enabled = %v, want %v", tt.level, got, tt.wantDebug)
		}
	}
}
