package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override, e.g. SCRAWL_LOG_LEVEL.
const EnvPrefix = "SCRAWL"

// Config holds application configuration.
type Config struct {
	// DefaultMaxStoryEntries caps stories when a game is started without an explicit limit.
	DefaultMaxStoryEntries int `json:"default_max_story_entries"`

	// AllowedPaths is an allowlist of directories for story exports.
	// Paths outside ~/.scrawl/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for exports.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool groups to disable entirely.
	// Known types: "game", "story", "player".
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogEncoding is "json" or "console".
	LogEncoding string `json:"log_encoding,omitempty"`

	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`
}

// envOverlay mirrors the overridable fields. Unset variables leave zero
// values so Merge keeps whatever the files configured.
type envOverlay struct {
	MaxStoryEntries  int      `envconfig:"MAX_STORY_ENTRIES"`
	AllowedPaths     []string `envconfig:"ALLOWED_PATHS"`
	AllowUnsafePaths bool     `envconfig:"ALLOW_UNSAFE_PATHS"`
	DBMaxOpenConns   int      `envconfig:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns   int      `envconfig:"DB_MAX_IDLE_CONNS"`
	DisabledTools    []string `envconfig:"DISABLED_TOOLS"`
	DisabledTypes    []string `envconfig:"DISABLED_TYPES"`
	LogLevel         string   `envconfig:"LOG_LEVEL"`
	LogEncoding      string   `envconfig:"LOG_ENCODING"`
	WebBind          string   `envconfig:"WEB_BIND"`
	WebPort          int      `envconfig:"WEB_PORT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMaxStoryEntries: 3,
		LogLevel:               "info",
		LogEncoding:            "json",
		WebBind:                "127.0.0.1",
		WebPort:                8417,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.scrawl) and repo (.scrawl) directories.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// ApplyEnv overlays SCRAWL_* environment variables onto cfg.
func ApplyEnv(cfg *Config) (*Config, error) {
	var env envOverlay
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return Merge(cfg, &Config{
		DefaultMaxStoryEntries: env.MaxStoryEntries,
		AllowedPaths:           env.AllowedPaths,
		AllowUnsafePaths:       env.AllowUnsafePaths,
		DBMaxOpenConns:         env.DBMaxOpenConns,
		DBMaxIdleConns:         env.DBMaxIdleConns,
		DisabledTools:          env.DisabledTools,
		DisabledTypes:          env.DisabledTypes,
		LogLevel:               env.LogLevel,
		LogEncoding:            env.LogEncoding,
		WebBind:                env.WebBind,
		WebPort:                env.WebPort,
	}), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .scrawl/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".scrawl", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw returns a zero-valued config (not defaults) if the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	return &Config{
		DefaultMaxStoryEntries: orInt(overlay.DefaultMaxStoryEntries, base.DefaultMaxStoryEntries),
		DBMaxOpenConns:         orInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:         orInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		WebPort:                orInt(overlay.WebPort, base.WebPort),
		LogLevel:               orString(overlay.LogLevel, base.LogLevel),
		LogEncoding:            orString(overlay.LogEncoding, base.LogEncoding),
		WebBind:                orString(overlay.WebBind, base.WebBind),

		// Booleans: overlay wins if true, else base
		AllowUnsafePaths: base.AllowUnsafePaths || overlay.AllowUnsafePaths,

		AllowedPaths:  mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths),
		DisabledTools: mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
		DisabledTypes: mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes),
	}
}

// WebAddr returns the listen address of the web server.
func (c *Config) WebAddr() string {
	return fmt.Sprintf("%s:%d", c.WebBind, c.WebPort)
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
