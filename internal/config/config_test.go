package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.DefaultMaxStoryEntries != want.DefaultMaxStoryEntries {
		t.Errorf("DefaultMaxStoryEntries = %d, want %d", cfg.DefaultMaxStoryEntries, want.DefaultMaxStoryEntries)
	}
	if cfg.WebAddr() != "127.0.0.1:8417" {
		t.Errorf("WebAddr() = %q, want 127.0.0.1:8417", cfg.WebAddr())
	}
	if cfg.LogLevel != "info" || cfg.LogEncoding != "json" {
		t.Errorf("log settings = %q/%q, want info/json", cfg.LogLevel, cfg.LogEncoding)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_max_story_entries": 5, "web_port": 9000, "log_level": "debug"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultMaxStoryEntries != 5 {
		t.Errorf("DefaultMaxStoryEntries = %d, want 5", cfg.DefaultMaxStoryEntries)
	}
	if cfg.WebPort != 9000 {
		t.Errorf("WebPort = %d, want 9000", cfg.WebPort)
	}
	if cfg.WebBind != "127.0.0.1" {
		t.Errorf("WebBind = %q, want default", cfg.WebBind)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["game_purge", "game_delete"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 || cfg.DisabledTools[0] != "game_purge" || cfg.DisabledTools[1] != "game_delete" {
		t.Errorf("DisabledTools = %v, want [game_purge game_delete]", cfg.DisabledTools)
	}
}

func TestLoadWithRepo(t *testing.T) {
	tests := []struct {
		name         string
		global       string
		repo         string
		wantEntries  int
		wantDisabled int
	}{
		{"neither", "", "", 3, 0},
		{"only global", `{"default_max_story_entries": 4, "disabled_tools": ["game_purge"]}`, "", 4, 1},
		{"only repo", "", `{"disabled_tools": ["game_delete", "game_purge"]}`, 3, 2},
		{
			"both",
			`{"default_max_story_entries": 4, "disabled_tools": ["game_purge"]}`,
			`{"default_max_story_entries": 2, "disabled_tools": ["game_delete"]}`,
			2, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			globalDir := t.TempDir()
			repoRoot := t.TempDir()
			if tt.global != "" {
				writeConfig(t, globalDir, tt.global)
			}
			if tt.repo != "" {
				writeConfig(t, filepath.Join(repoRoot, ".scrawl"), tt.repo)
			}

			cfg, err := LoadWithRepo(globalDir, repoRoot)
			if err != nil {
				t.Fatalf("LoadWithRepo() error = %v", err)
			}
			if cfg.DefaultMaxStoryEntries != tt.wantEntries {
				t.Errorf("DefaultMaxStoryEntries = %d, want %d", cfg.DefaultMaxStoryEntries, tt.wantEntries)
			}
			if len(cfg.DisabledTools) != tt.wantDisabled {
				t.Errorf("DisabledTools = %v, want %d entries", cfg.DisabledTools, tt.wantDisabled)
			}
		})
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".scrawl"), `{"disabled_types": ["story"]}`)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(subdir); found != filepath.Join(tmpDir, ".scrawl", "config.json") {
		t.Errorf("FindRepoConfig() = %q", found)
	}

	cfg, err := LoadWithRepo(t.TempDir(), subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if len(cfg.DisabledTypes) != 1 || cfg.DisabledTypes[0] != "story" {
		t.Errorf("DisabledTypes = %v, want [story]", cfg.DisabledTypes)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}

func TestMerge(t *testing.T) {
	base := &Config{
		DefaultMaxStoryEntries: 3,
		DBMaxOpenConns:         5,
		AllowUnsafePaths:       true,
		LogLevel:               "info",
		DisabledTools:          []string{"game_purge", "game_delete"},
	}
	overlay := &Config{
		DefaultMaxStoryEntries: 6,
		LogLevel:               "  ",
		DisabledTools:          []string{"game_delete", " story_censor "},
	}

	result := Merge(base, overlay)

	if result.DefaultMaxStoryEntries != 6 {
		t.Errorf("DefaultMaxStoryEntries = %d, want 6 (overlay)", result.DefaultMaxStoryEntries)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
	if result.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want base value for blank overlay", result.LogLevel)
	}
	want := []string{"game_purge", "game_delete", "story_censor"}
	if len(result.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
	for i := range want {
		if result.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want[i])
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCRAWL_MAX_STORY_ENTRIES", "7")
	t.Setenv("SCRAWL_LOG_ENCODING", "console")
	t.Setenv("SCRAWL_WEB_PORT", "9999")
	t.Setenv("SCRAWL_DISABLED_TOOLS", "game_purge,game_delete")

	cfg, err := ApplyEnv(DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.DefaultMaxStoryEntries != 7 {
		t.Errorf("DefaultMaxStoryEntries = %d, want 7", cfg.DefaultMaxStoryEntries)
	}
	if cfg.LogEncoding != "console" {
		t.Errorf("LogEncoding = %q, want console", cfg.LogEncoding)
	}
	if cfg.WebAddr() != "127.0.0.1:9999" {
		t.Errorf("WebAddr() = %q", cfg.WebAddr())
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want 2 entries", cfg.DisabledTools)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("SCRAWL_WEB_PORT", "not-a-port")

	if _, err := ApplyEnv(DefaultConfig()); err == nil {
		t.Fatal("ApplyEnv() expected error for non-numeric port")
	}
}
