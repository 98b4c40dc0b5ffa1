package web

import (
	"net/http"

	"github.com/hpungsan/scrawl/internal/ops"
)

// Request bodies of the JSON API.

type createGameRequest struct {
	PlayerIDs []string `json:"player_ids" validate:"omitempty,dive,required"`
}

type playerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type startGameRequest struct {
	MaxStoryEntries int `json:"max_story_entries" validate:"gte=0"`
}

type contentRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type censorRequest struct {
	PlayerID    string `json:"player_id" validate:"required"`
	WordIndices []int  `json:"word_indices" validate:"required,min=1,dive,gte=0"`
}

type truncateRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Count    int    `json:"count" validate:"gte=1"`
}

type repairRequest struct {
	PlayerID     string   `json:"player_id" validate:"required"`
	Replacements []string `json:"replacements" validate:"required,min=1"`
}

type purgeRequest struct {
	OlderThanDays *int `json:"older_than_days" validate:"omitempty,gte=0"`
}

type exportRequest struct {
	Path string `json:"path"`
}

// HandleAPICreateGame handles POST /api/games.
func (h *Handlers) HandleAPICreateGame(w http.ResponseWriter, r *http.Request) {
	req, err := bind[createGameRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.CreateGame(r.Context(), h.deps.DB, ops.CreateGameInput{PlayerIDs: req.PlayerIDs})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleAPIListGames handles GET /api/games.
func (h *Handlers) HandleAPIListGames(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListGames(r.Context(), h.deps.DB, ops.ListGamesInput{
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIFetchGame handles GET /api/games/{id}.
func (h *Handlers) HandleAPIFetchGame(w http.ResponseWriter, r *http.Request) {
	result, err := ops.FetchGame(r.Context(), h.deps.DB, ops.FetchGameInput{
		GameID:         r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIDeleteGame handles DELETE /api/games/{id}.
func (h *Handlers) HandleAPIDeleteGame(w http.ResponseWriter, r *http.Request) {
	result, err := ops.DeleteGame(r.Context(), h.deps.DB, ops.DeleteGameInput{GameID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIPurgeGames handles POST /api/games/purge.
func (h *Handlers) HandleAPIPurgeGames(w http.ResponseWriter, r *http.Request) {
	req, err := bind[purgeRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.PurgeGames(r.Context(), h.deps.DB, ops.PurgeGamesInput{OlderThanDays: req.OlderThanDays})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIJoinGame handles POST /api/games/{id}/join.
func (h *Handlers) HandleAPIJoinGame(w http.ResponseWriter, r *http.Request) {
	req, err := bind[playerRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.JoinGame(r.Context(), h.deps, ops.JoinGameInput{
		GameID:   r.PathValue("id"),
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIStartGame handles POST /api/games/{id}/start.
func (h *Handlers) HandleAPIStartGame(w http.ResponseWriter, r *http.Request) {
	req, err := bind[startGameRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.StartGame(r.Context(), h.deps, ops.StartGameInput{
		GameID:          r.PathValue("id"),
		MaxStoryEntries: req.MaxStoryEntries,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIExport handles POST /api/games/{id}/export.
func (h *Handlers) HandleAPIExport(w http.ResponseWriter, r *http.Request) {
	req, err := bind[exportRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.ExportStories(r.Context(), h.deps.DB, h.deps.Config, ops.ExportStoriesInput{
		GameID: r.PathValue("id"),
		Path:   req.Path,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIStartStory handles POST /api/games/{id}/stories.
func (h *Handlers) HandleAPIStartStory(w http.ResponseWriter, r *http.Request) {
	req, err := bind[contentRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.StartStory(r.Context(), h.deps, ops.StartStoryInput{
		GameID:   r.PathValue("id"),
		PlayerID: req.PlayerID,
		Content:  req.Content,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleAPICensor handles POST /api/games/{id}/stories/{story}/censor.
func (h *Handlers) HandleAPICensor(w http.ResponseWriter, r *http.Request) {
	storyIndex, err := pathInt(r, "story")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	req, err := bind[censorRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.CensorStory(r.Context(), h.deps, ops.CensorStoryInput{
		GameID:      r.PathValue("id"),
		PlayerID:    req.PlayerID,
		StoryIndex:  storyIndex,
		WordIndices: req.WordIndices,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPITruncate handles POST /api/games/{id}/stories/{story}/truncate.
func (h *Handlers) HandleAPITruncate(w http.ResponseWriter, r *http.Request) {
	storyIndex, err := pathInt(r, "story")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	req, err := bind[truncateRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.TruncateStory(r.Context(), h.deps, ops.TruncateStoryInput{
		GameID:     r.PathValue("id"),
		PlayerID:   req.PlayerID,
		StoryIndex: storyIndex,
		Count:      req.Count,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIRepair handles POST /api/games/{id}/stories/{story}/repair.
func (h *Handlers) HandleAPIRepair(w http.ResponseWriter, r *http.Request) {
	storyIndex, err := pathInt(r, "story")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	req, err := bind[repairRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.RepairStory(r.Context(), h.deps, ops.RepairStoryInput{
		GameID:       r.PathValue("id"),
		PlayerID:     req.PlayerID,
		StoryIndex:   storyIndex,
		Replacements: req.Replacements,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIContinue handles POST /api/games/{id}/stories/{story}/continue.
func (h *Handlers) HandleAPIContinue(w http.ResponseWriter, r *http.Request) {
	storyIndex, err := pathInt(r, "story")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	req, err := bind[contentRequest](w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.ContinueStory(r.Context(), h.deps, ops.ContinueStoryInput{
		GameID:     r.PathValue("id"),
		PlayerID:   req.PlayerID,
		StoryIndex: storyIndex,
		Content:    req.Content,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIStoryEntry handles GET /api/games/{id}/stories/{story}/entries/{entry}.
func (h *Handlers) HandleAPIStoryEntry(w http.ResponseWriter, r *http.Request) {
	storyIndex, err := pathInt(r, "story")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	entryIndex, err := pathInt(r, "entry")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.StoryEntry(r.Context(), h.deps.DB, ops.StoryEntryInput{
		GameID:     r.PathValue("id"),
		StoryIndex: storyIndex,
		EntryIndex: entryIndex,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIActivity handles GET /api/games/{id}/players/{player}/activity.
func (h *Handlers) HandleAPIActivity(w http.ResponseWriter, r *http.Request) {
	result, err := ops.PlayerActivity(r.Context(), h.deps.DB, ops.PlayerActivityInput{
		GameID:   r.PathValue("id"),
		PlayerID: r.PathValue("player"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPISubscribe handles POST /api/games/{id}/players/{player}/subscribe.
func (h *Handlers) HandleAPISubscribe(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Subscribe(r.Context(), h.deps.DB, ops.SubscribeInput{
		GameID:   r.PathValue("id"),
		PlayerID: r.PathValue("player"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIWords handles GET /api/words?content=...
func (h *Handlers) HandleAPIWords(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Words(ops.WordsInput{Content: r.URL.Query().Get("content")}))
}
