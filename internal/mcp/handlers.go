package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// GameCreateRequest represents the arguments for game_create.
type GameCreateRequest struct {
	PlayerIDs []string `json:"player_ids,omitempty"`
}

// GameRequest addresses a game, optionally on behalf of a player.
// It serves game_join, game_delete, player_activity and player_subscribe.
type GameRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id,omitempty"`
}

// GameStartRequest represents the arguments for game_start.
type GameStartRequest struct {
	GameID          string `json:"game_id"`
	MaxStoryEntries int    `json:"max_story_entries,omitempty"`
}

// GameFetchRequest represents the arguments for game_fetch.
type GameFetchRequest struct {
	GameID         string `json:"game_id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// GameListRequest represents the arguments for game_list.
type GameListRequest struct {
	Limit          int  `json:"limit,omitempty"`
	Offset         int  `json:"offset,omitempty"`
	IncludeDeleted bool `json:"include_deleted,omitempty"`
}

// GamePurgeRequest represents the arguments for game_purge.
type GamePurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// GameExportRequest represents the arguments for game_export.
type GameExportRequest struct {
	GameID string `json:"game_id"`
	Path   string `json:"path,omitempty"`
}

// StoryStartRequest represents the arguments for story_start.
type StoryStartRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Content  string `json:"content"`
}

// StoryCommandRequest represents the arguments shared by the story_censor,
// story_truncate, story_repair and story_continue tools. Each tool reads the
// fields it needs.
type StoryCommandRequest struct {
	GameID       string   `json:"game_id"`
	PlayerID     string   `json:"player_id"`
	StoryIndex   *int     `json:"story_index"`
	WordIndices  []int    `json:"word_indices,omitempty"`
	Count        int      `json:"count,omitempty"`
	Replacements []string `json:"replacements,omitempty"`
	Content      string   `json:"content,omitempty"`
}

// StoryEntryRequest represents the arguments for story_entry.
type StoryEntryRequest struct {
	GameID     string `json:"game_id"`
	StoryIndex *int   `json:"story_index"`
	EntryIndex *int   `json:"entry_index"`
}

// StoryWordsRequest represents the arguments for story_words.
type StoryWordsRequest struct {
	Content string `json:"content"`
}

// Handler implementations

// HandleGameCreate handles the game_create tool call.
func (h *Handlers) HandleGameCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateGame(ctx, h.deps.DB, ops.CreateGameInput{PlayerIDs: input.PlayerIDs})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameJoin handles the game_join tool call.
func (h *Handlers) HandleGameJoin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.JoinGame(ctx, h.deps, ops.JoinGameInput{GameID: input.GameID, PlayerID: input.PlayerID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameStart handles the game_start tool call.
func (h *Handlers) HandleGameStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameStartRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StartGame(ctx, h.deps, ops.StartGameInput{
		GameID:          input.GameID,
		MaxStoryEntries: input.MaxStoryEntries,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameFetch handles the game_fetch tool call.
func (h *Handlers) HandleGameFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.FetchGame(ctx, h.deps.DB, ops.FetchGameInput{
		GameID:         input.GameID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameList handles the game_list tool call.
func (h *Handlers) HandleGameList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListGames(ctx, h.deps.DB, ops.ListGamesInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameDelete handles the game_delete tool call.
func (h *Handlers) HandleGameDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DeleteGame(ctx, h.deps.DB, ops.DeleteGameInput{GameID: input.GameID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGamePurge handles the game_purge tool call.
func (h *Handlers) HandleGamePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GamePurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PurgeGames(ctx, h.deps.DB, ops.PurgeGamesInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGameExport handles the game_export tool call.
func (h *Handlers) HandleGameExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ExportStories(ctx, h.deps.DB, h.deps.Config, ops.ExportStoriesInput{
		GameID: input.GameID,
		Path:   input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryStart handles the story_start tool call.
func (h *Handlers) HandleStoryStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoryStartRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StartStory(ctx, h.deps, ops.StartStoryInput{
		GameID:   input.GameID,
		PlayerID: input.PlayerID,
		Content:  input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryCensor handles the story_censor tool call.
func (h *Handlers) HandleStoryCensor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, index, err := decodeStoryCommand(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.CensorStory(ctx, h.deps, ops.CensorStoryInput{
		GameID:      input.GameID,
		PlayerID:    input.PlayerID,
		StoryIndex:  index,
		WordIndices: input.WordIndices,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryTruncate handles the story_truncate tool call.
func (h *Handlers) HandleStoryTruncate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, index, err := decodeStoryCommand(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.TruncateStory(ctx, h.deps, ops.TruncateStoryInput{
		GameID:     input.GameID,
		PlayerID:   input.PlayerID,
		StoryIndex: index,
		Count:      input.Count,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryRepair handles the story_repair tool call.
func (h *Handlers) HandleStoryRepair(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, index, err := decodeStoryCommand(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.RepairStory(ctx, h.deps, ops.RepairStoryInput{
		GameID:       input.GameID,
		PlayerID:     input.PlayerID,
		StoryIndex:   index,
		Replacements: input.Replacements,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryContinue handles the story_continue tool call.
func (h *Handlers) HandleStoryContinue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, index, err := decodeStoryCommand(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ContinueStory(ctx, h.deps, ops.ContinueStoryInput{
		GameID:     input.GameID,
		PlayerID:   input.PlayerID,
		StoryIndex: index,
		Content:    input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryEntry handles the story_entry tool call.
func (h *Handlers) HandleStoryEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoryEntryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.StoryIndex == nil || input.EntryIndex == nil {
		return errorResult(errors.NewInvalidRequest("story_index and entry_index are required")), nil
	}

	result, err := ops.StoryEntry(ctx, h.deps.DB, ops.StoryEntryInput{
		GameID:     input.GameID,
		StoryIndex: *input.StoryIndex,
		EntryIndex: *input.EntryIndex,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStoryWords handles the story_words tool call.
func (h *Handlers) HandleStoryWords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoryWordsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(ops.Words(ops.WordsInput{Content: input.Content}))
}

// HandlePlayerActivity handles the player_activity tool call.
func (h *Handlers) HandlePlayerActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PlayerActivity(ctx, h.deps.DB, ops.PlayerActivityInput{
		GameID:   input.GameID,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePlayerSubscribe handles the player_subscribe tool call.
func (h *Handlers) HandlePlayerSubscribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Subscribe(ctx, h.deps.DB, ops.SubscribeInput{
		GameID:   input.GameID,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func decodeStoryCommand(req mcp.CallToolRequest) (StoryCommandRequest, int, error) {
	input, err := decode[StoryCommandRequest](req)
	if err != nil {
		return input, 0, errors.NewInvalidRequest(err.Error())
	}
	if input.StoryIndex == nil {
		return input, 0, errors.NewInvalidRequest("story_index is required")
	}
	return input, *input.StoryIndex, nil
}

// Result helpers

// errorResult creates an MCP error result from any error.
// INTERNAL errors carry a generic message and no details so SQL errors and
// file paths stay out of client transcripts.
func errorResult(err error) *mcp.CallToolResult {
	sErr := errors.As(err)

	errorObj := map[string]any{
		"code":    sErr.Code,
		"message": sErr.Message,
		"status":  sErr.Status,
	}
	if sErr.Code == errors.ErrInternal {
		errorObj["message"] = "an internal error occurred"
	} else if sErr.Details != nil {
		errorObj["details"] = sErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
