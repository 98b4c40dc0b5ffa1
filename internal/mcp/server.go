package mcp

import (
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/scrawl/internal/config"
	"github.com/hpungsan/scrawl/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"game", "story", "player"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"game_create": {
		def:     gameCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameCreate },
	},
	"game_join": {
		def:     gameJoinToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameJoin },
	},
	"game_start": {
		def:     gameStartToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameStart },
	},
	"game_fetch": {
		def:     gameFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameFetch },
	},
	"game_list": {
		def:     gameListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameList },
	},
	"game_delete": {
		def:     gameDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameDelete },
	},
	"game_purge": {
		def:     gamePurgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGamePurge },
	},
	"game_export": {
		def:     gameExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGameExport },
	},
	"story_start": {
		def:     storyStartToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryStart },
	},
	"story_censor": {
		def:     storyCensorToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryCensor },
	},
	"story_truncate": {
		def:     storyTruncateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryTruncate },
	},
	"story_repair": {
		def:     storyRepairToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryRepair },
	},
	"story_continue": {
		def:     storyContinueToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryContinue },
	},
	"story_entry": {
		def:     storyEntryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryEntry },
	},
	"story_words": {
		def:     storyWordsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStoryWords },
	},
	"player_activity": {
		def:     playerActivityToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePlayerActivity },
	},
	"player_subscribe": {
		def:     playerSubscribeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePlayerSubscribe },
	},
}

// AllToolNames returns every valid tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "story_censor" → "story").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates an MCP server with the scrawl tools registered.
// Tools listed in DisabledTools or belonging to DisabledTypes are skipped.
func NewServer(deps ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"scrawl",
		version,
		server.WithToolCapabilities(true),
	)

	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
		deps.Config = cfg
	}
	h := NewHandlers(deps)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(deps ops.Deps, version string) error {
	return server.ServeStdio(NewServer(deps, version))
}
