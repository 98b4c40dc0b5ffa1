package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func gameIDParam() mcp.ToolOption {
	return mcp.WithString("game_id", mcp.Required(), mcp.Description("Game id"))
}

func playerIDParam() mcp.ToolOption {
	return mcp.WithString("player_id", mcp.Required(), mcp.Description("Acting player id"))
}

func storyIndexParam() mcp.ToolOption {
	return mcp.WithNumber("story_index", mcp.Required(), mcp.Min(0),
		mcp.Description("Index of the story, equal to its author's join position"))
}

var gameCreateToolDef = mcp.NewTool("game_create",
	mcp.WithDescription("Create a game, optionally joining players in order"),
	mcp.WithArray("player_ids",
		mcp.Description("Players to join and subscribe, in rotation order"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var gameJoinToolDef = mcp.NewTool("game_join",
	mcp.WithDescription("Join a game before it starts. Joining twice is a no-op"),
	gameIDParam(),
	playerIDParam(),
)

var gameStartToolDef = mcp.NewTool("game_start",
	mcp.WithDescription("Start a game with at least four players"),
	gameIDParam(),
	mcp.WithNumber("max_story_entries", mcp.Min(1),
		mcp.Description("Entries per story (default from config)")),
)

var gameFetchToolDef = mcp.NewTool("game_fetch",
	mcp.WithDescription("Fetch a game's full state"),
	gameIDParam(),
	mcp.WithBoolean("include_deleted", mcp.Description("Also find soft-deleted games")),
)

var gameListToolDef = mcp.NewTool("game_list",
	mcp.WithDescription("List games, most recently updated first"),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Rows to skip")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted games")),
)

var gameDeleteToolDef = mcp.NewTool("game_delete",
	mcp.WithDescription("Soft-delete a game"),
	gameIDParam(),
)

var gamePurgeToolDef = mcp.NewTool("game_purge",
	mcp.WithDescription("Permanently remove soft-deleted games"),
	mcp.WithNumber("older_than_days", mcp.Min(0),
		mcp.Description("Only purge games deleted more than this many days ago")),
)

var gameExportToolDef = mcp.NewTool("game_export",
	mcp.WithDescription("Export the finished stories of a completed game as Markdown"),
	gameIDParam(),
	mcp.WithString("path", mcp.Description("Destination .md file (default ~/.scrawl/exports/<game>-<timestamp>.md)")),
)

var storyStartToolDef = mcp.NewTool("story_start",
	mcp.WithDescription("Write the opening entry of your own story"),
	gameIDParam(),
	playerIDParam(),
	mcp.WithString("content", mcp.Required(), mcp.Description("Opening text, at least two words")),
)

var storyCensorToolDef = mcp.NewTool("story_censor",
	mcp.WithDescription("Censor words of the story's newest entry"),
	gameIDParam(),
	playerIDParam(),
	storyIndexParam(),
	mcp.WithArray("word_indices", mcp.Required(),
		mcp.Description("Indices into the words of the story's newest entry. "+
			"After a continue, the redacting_story activity still shows the opening entry, "+
			"so its word boundaries may not match"),
		mcp.Items(map[string]any{"type": "integer", "minimum": 0}),
	),
)

var storyTruncateToolDef = mcp.NewTool("story_truncate",
	mcp.WithDescription("Blank out the last words of the story's newest entry"),
	gameIDParam(),
	playerIDParam(),
	storyIndexParam(),
	mcp.WithNumber("count", mcp.Required(), mcp.Min(1), mcp.Max(7),
		mcp.Description("Words to remove from the end")),
)

var storyRepairToolDef = mcp.NewTool("story_repair",
	mcp.WithDescription("Fill in a censored or truncated entry"),
	gameIDParam(),
	playerIDParam(),
	storyIndexParam(),
	mcp.WithArray("replacements", mcp.Required(),
		mcp.Description("One text per censored word, or a single new ending for a truncation"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var storyContinueToolDef = mcp.NewTool("story_continue",
	mcp.WithDescription("Append a new entry to a repaired story"),
	gameIDParam(),
	playerIDParam(),
	storyIndexParam(),
	mcp.WithString("content", mcp.Required(), mcp.Description("New entry, at least two words")),
)

var storyEntryToolDef = mcp.NewTool("story_entry",
	mcp.WithDescription("Read the current text of one story entry"),
	gameIDParam(),
	storyIndexParam(),
	mcp.WithNumber("entry_index", mcp.Required(), mcp.Min(0), mcp.Description("Entry index within the story")),
)

var storyWordsToolDef = mcp.NewTool("story_words",
	mcp.WithDescription("Show how text splits into censorable words"),
	mcp.WithString("content", mcp.Required(), mcp.Description("Text to inspect")),
)

var playerActivityToolDef = mcp.NewTool("player_activity",
	mcp.WithDescription("What the player has to do right now"),
	gameIDParam(),
	playerIDParam(),
)

var playerSubscribeToolDef = mcp.NewTool("player_subscribe",
	mcp.WithDescription("Subscribe a player of the game to its change events"),
	gameIDParam(),
	playerIDParam(),
)
