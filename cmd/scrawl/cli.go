package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/scrawl/internal/config"
	"github.com/hpungsan/scrawl/internal/errors"
	"github.com/hpungsan/scrawl/internal/notify"
	"github.com/hpungsan/scrawl/internal/ops"
	"github.com/hpungsan/scrawl/internal/web"
)

// maxContentBytes bounds story text read from stdin.
const maxContentBytes = 64 << 10

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "scrawl",
		Usage:   "Pass-the-page storytelling game",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(deps),
			joinCmd(deps),
			startCmd(deps),
			fetchCmd(deps),
			listCmd(deps),
			deleteCmd(deps),
			purgeCmd(deps),
			exportCmd(deps),
			startStoryCmd(deps),
			censorCmd(deps),
			truncateCmd(deps),
			repairCmd(deps),
			continueCmd(deps),
			activityCmd(deps),
			entryCmd(deps),
			subscribeCmd(deps),
			wordsCmd(),
			serveCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func gameFlag() cli.Flag {
	return &cli.StringFlag{Name: "game", Aliases: []string{"g"}, Usage: "Game ID", Required: true}
}

func playerFlag() cli.Flag {
	return &cli.StringFlag{Name: "player", Aliases: []string{"p"}, Usage: "Player ID", Required: true}
}

func storyFlag() cli.Flag {
	return &cli.IntFlag{Name: "story", Aliases: []string{"s"}, Usage: "Story index", Required: true}
}

// createCmd creates the create command.
func createCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a game, optionally joining players in order",
		ArgsUsage: "[player...]",
		Action: func(c *cli.Context) error {
			output, err := ops.CreateGame(c.Context, deps.DB, ops.CreateGameInput{PlayerIDs: c.Args().Slice()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// joinCmd creates the join command.
func joinCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "join",
		Usage: "Join a game that has not started",
		Flags: []cli.Flag{gameFlag(), playerFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.JoinGame(c.Context, deps, ops.JoinGameInput{
				GameID:   c.String("game"),
				PlayerID: c.String("player"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// startCmd creates the start command.
func startCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Close the roster and start the game",
		Flags: []cli.Flag{
			gameFlag(),
			&cli.IntFlag{Name: "max-entries", Aliases: []string{"m"}, Usage: "Entries per story (default from config)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.StartGame(c.Context, deps, ops.StartGameInput{
				GameID:          c.String("game"),
				MaxStoryEntries: c.Int("max-entries"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a game with its full state",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted games"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.FetchGame(c.Context, deps.DB, ops.FetchGameInput{
				GameID:         c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List games, most recently updated first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Pagination offset"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted games"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListGames(c.Context, deps.DB, ops.ListGamesInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a game",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.DeleteGame(c.Context, deps.DB, ops.DeleteGameInput{GameID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted games",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeGamesInput{}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.PurgeGames(c.Context, deps.DB, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the finished stories of a completed game to Markdown",
		Flags: []cli.Flag{
			gameFlag(),
			&cli.StringFlag{Name: "path", Usage: "Output path (default: ~/.scrawl/exports/<game>-<timestamp>.md)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ExportStories(c.Context, deps.DB, deps.Config, ops.ExportStoriesInput{
				GameID: c.String("game"),
				Path:   c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// startStoryCmd creates the start-story command.
func startStoryCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "start-story",
		Usage: "Write the opening entry of your story (--content or stdin)",
		Flags: []cli.Flag{
			gameFlag(), playerFlag(),
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry text"},
		},
		Action: func(c *cli.Context) error {
			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.StartStory(c.Context, deps, ops.StartStoryInput{
				GameID:   c.String("game"),
				PlayerID: c.String("player"),
				Content:  content,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// censorCmd creates the censor command.
func censorCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "censor",
		Usage:     "Censor words of the entry you are redacting",
		ArgsUsage: "<word-index...>",
		Flags:     []cli.Flag{gameFlag(), playerFlag(), storyFlag()},
		Action: func(c *cli.Context) error {
			indices, err := parseIndices(c.Args().Slice())
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			output, err := ops.CensorStory(c.Context, deps, ops.CensorStoryInput{
				GameID:      c.String("game"),
				PlayerID:    c.String("player"),
				StoryIndex:  c.Int("story"),
				WordIndices: indices,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// truncateCmd creates the truncate command.
func truncateCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "truncate",
		Usage: "Cut the last words off the entry you are redacting",
		Flags: []cli.Flag{
			gameFlag(), playerFlag(), storyFlag(),
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Words to remove (1-7)", Required: true},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.TruncateStory(c.Context, deps, ops.TruncateStoryInput{
				GameID:     c.String("game"),
				PlayerID:   c.String("player"),
				StoryIndex: c.Int("story"),
				Count:      c.Int("count"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// repairCmd creates the repair command.
func repairCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "repair",
		Usage:     "Fill in a redaction: one argument per censored word, or one new ending",
		ArgsUsage: "<replacement...>",
		Flags:     []cli.Flag{gameFlag(), playerFlag(), storyFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.RepairStory(c.Context, deps, ops.RepairStoryInput{
				GameID:       c.String("game"),
				PlayerID:     c.String("player"),
				StoryIndex:   c.Int("story"),
				Replacements: c.Args().Slice(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// continueCmd creates the continue command.
func continueCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "continue",
		Usage: "Append the next entry to a repaired story (--content or stdin)",
		Flags: []cli.Flag{
			gameFlag(), playerFlag(), storyFlag(),
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry text"},
		},
		Action: func(c *cli.Context) error {
			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.ContinueStory(c.Context, deps, ops.ContinueStoryInput{
				GameID:     c.String("game"),
				PlayerID:   c.String("player"),
				StoryIndex: c.Int("story"),
				Content:    content,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// activityCmd creates the activity command.
func activityCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Show what a player has to do right now",
		Flags: []cli.Flag{gameFlag(), playerFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.PlayerActivity(c.Context, deps.DB, ops.PlayerActivityInput{
				GameID:   c.String("game"),
				PlayerID: c.String("player"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// entryCmd creates the entry command.
func entryCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "entry",
		Usage: "Show the current text of one story entry",
		Flags: []cli.Flag{
			gameFlag(), storyFlag(),
			&cli.IntFlag{Name: "entry", Aliases: []string{"e"}, Usage: "Entry index", Value: 0},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.StoryEntry(c.Context, deps.DB, ops.StoryEntryInput{
				GameID:     c.String("game"),
				StoryIndex: c.Int("story"),
				EntryIndex: c.Int("entry"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// subscribeCmd creates the subscribe command.
func subscribeCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "subscribe",
		Usage: "Subscribe a player to game events",
		Flags: []cli.Flag{gameFlag(), playerFlag()},
		Action: func(c *cli.Context) error {
			output, err := ops.Subscribe(c.Context, deps.DB, ops.SubscribeInput{
				GameID:   c.String("game"),
				PlayerID: c.String("player"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// wordsCmd creates the words command.
func wordsCmd() *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "Show the censorable words of a text (--content or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Text to inspect"},
		},
		Action: func(c *cli.Context) error {
			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(ops.Words(ops.WordsInput{Content: content}))
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI, JSON API and websocket event stream",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			var bind *string
			var port *int
			if c.IsSet("bind") {
				b := c.String("bind")
				bind = &b
			}
			if c.IsSet("port") {
				p := c.Int("port")
				port = &p
			}
			deps.Config = serveConfig(deps.Config, bind, port)

			if deps.Logger == nil {
				deps.Logger = zap.NewNop()
			}
			hub := notify.NewHub(deps.Logger, nil)
			defer hub.Close()
			if deps.Notifier != nil {
				deps.Notifier = notify.Fanout{deps.Notifier, hub}
			} else {
				deps.Notifier = hub
			}

			srv, err := web.NewServer(deps, hub, Version)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, deps.Logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// serveConfig copies base (or the defaults) and applies the listen overrides.
// base is never modified.
func serveConfig(base *config.Config, bind *string, port *int) *config.Config {
	cfg := *config.DefaultConfig()
	if base != nil {
		cfg = *base
	}
	if bind != nil {
		cfg.WebBind = *bind
	}
	if port != nil {
		cfg.WebPort = *port
	}
	return &cfg
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	sErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
}

// contentArg returns --content, or stdin when it is piped.
func contentArg(c *cli.Context) (string, error) {
	if c.IsSet("content") {
		return c.String("content"), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("content must be given with --content or piped via stdin")
	}
	return readStdin(maxContentBytes)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("input exceeds %d bytes", limit))
	}
	return strings.TrimSpace(string(data)), nil
}

// parseIndices converts word index arguments to ints.
func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid word index: %s", a)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
