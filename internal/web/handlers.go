package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/notify"
	"github.com/hpungsan/scrawl/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI and JSON API.
type Handlers struct {
	deps     ops.Deps
	hub      *notify.Hub
	renderer *Renderer
}

// HandleList handles GET /games: list games, most recently updated first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListGamesInput{
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.ListGames(r.Context(), h.deps.DB, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Games",
			Version: h.renderer.version,
			Nav:     "games",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleGame handles GET /games/{id}: players, assignments and, once the
// game is complete, the finished stories.
func (h *Handlers) HandleGame(w http.ResponseWriter, r *http.Request) {
	result, err := ops.FetchGame(r.Context(), h.deps.DB, ops.FetchGameInput{
		GameID:         r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	players := make([]PlayerRow, 0, len(result.Game.PlayerIDs))
	for _, p := range result.Game.PlayerIDs {
		idx, ok := result.Assignments[p]
		players = append(players, PlayerRow{ID: p, StoryIndex: idx, Assigned: ok})
	}

	data := GamePageData{
		PageData: PageData{
			Title:   "Game " + result.ID,
			Version: h.renderer.version,
			Nav:     "games",
		},
		Game:    result,
		Players: players,
	}
	if result.Completed {
		stories, err := result.Game.FinishedStories()
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.StoriesMD = renderMarkdown(ops.StoriesMarkdown(result.ID, stories))
		data.HasStories = true
	}

	h.renderer.renderPage(w, "game", data)
}

// HandleActivity handles GET /games/{id}/players/{player}: what the player
// has to do right now, with the matching form.
func (h *Handlers) HandleActivity(w http.ResponseWriter, r *http.Request) {
	result, err := ops.PlayerActivity(r.Context(), h.deps.DB, ops.PlayerActivityInput{
		GameID:   r.PathValue("id"),
		PlayerID: r.PathValue("player"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "activity", ActivityPageData{
		PageData: PageData{
			Title:   "Playing as " + result.PlayerID,
			Version: h.renderer.version,
			Nav:     "games",
		},
		GameID:   result.GameID,
		PlayerID: result.PlayerID,
		Version:  result.Version,
		View:     presentActivity(result.GameID, result.Activity),
	})
}

// HandlePlayerAction handles POST /games/{id}/players/{player}/{action}
// form submissions and redirects back to the activity page.
func (h *Handlers) HandlePlayerAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	gameID := r.PathValue("id")
	playerID := r.PathValue("player")
	if err := h.applyAction(r, gameID, playerID, r.PathValue("action")); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, activityPath(gameID, playerID), http.StatusSeeOther)
}

func (h *Handlers) applyAction(r *http.Request, gameID, playerID, action string) error {
	ctx := r.Context()
	content := r.FormValue("content")

	if action == "start" {
		_, err := ops.StartStory(ctx, h.deps, ops.StartStoryInput{GameID: gameID, PlayerID: playerID, Content: content})
		return err
	}

	storyIndex, err := formInt(r, "story_index")
	if err != nil {
		return err
	}

	switch action {
	case "censor":
		indices := make([]int, 0, len(r.Form["word"]))
		for _, s := range r.Form["word"] {
			i, err := strconv.Atoi(s)
			if err != nil {
				return errors.NewInvalidRequest(fmt.Sprintf("word index %q is not a number", s))
			}
			indices = append(indices, i)
		}
		_, err = ops.CensorStory(ctx, h.deps, ops.CensorStoryInput{
			GameID: gameID, PlayerID: playerID, StoryIndex: storyIndex, WordIndices: indices,
		})
	case "truncate":
		count, cerr := formInt(r, "count")
		if cerr != nil {
			return cerr
		}
		_, err = ops.TruncateStory(ctx, h.deps, ops.TruncateStoryInput{
			GameID: gameID, PlayerID: playerID, StoryIndex: storyIndex, Count: count,
		})
	case "repair":
		_, err = ops.RepairStory(ctx, h.deps, ops.RepairStoryInput{
			GameID: gameID, PlayerID: playerID, StoryIndex: storyIndex, Replacements: r.Form["replacement"],
		})
	case "continue":
		_, err = ops.ContinueStory(ctx, h.deps, ops.ContinueStoryInput{
			GameID: gameID, PlayerID: playerID, StoryIndex: storyIndex, Content: content,
		})
	default:
		return errors.NewInvalidRequest(fmt.Sprintf("unknown action %q", action))
	}
	return err
}

// HandleDelete handles DELETE /games/{id}: soft-delete a game.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.DeleteGame(r.Context(), h.deps.DB, ops.DeleteGameInput{GameID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/games", http.StatusSeeOther)
}

// HandlePurge handles POST /games/purge: permanently delete soft-deleted games.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeGamesInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.PurgeGames(r.Context(), h.deps.DB, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(result.Message) + `</div>`))
}

// HandleEvents handles GET /ws?game=...&player=...: it subscribes the
// player to the game and streams game events over a websocket.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(r.URL.Query().Get("player"))
	_, err := ops.Subscribe(r.Context(), h.deps.DB, ops.SubscribeInput{
		GameID:   r.URL.Query().Get("game"),
		PlayerID: playerID,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.hub.Serve(w, r, playerID)
}

// formInt parses a required integer form value.
func formInt(r *http.Request, name string) (int, error) {
	s := r.FormValue(name)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s must be an integer, got %q", name, s))
	}
	return n, nil
}

func activityPath(gameID, playerID string) string {
	return "/games/" + url.PathEscape(gameID) + "/players/" + url.PathEscape(playerID)
}
