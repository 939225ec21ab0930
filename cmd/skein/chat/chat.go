// Package chatcmder provides the chat command for interactive streaming
// conversations with LLM providers.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skeinhq/skein/pkg/cliui"
	"github.com/skeinhq/skein/pkg/config"
	"github.com/skeinhq/skein/pkg/credentials"
	"github.com/skeinhq/skein/pkg/dotdir"
	"github.com/skeinhq/skein/pkg/engine"
	"github.com/skeinhq/skein/pkg/history"
	"github.com/skeinhq/skein/pkg/history/inmemory"
	"github.com/skeinhq/skein/pkg/history/postgres"
	"github.com/skeinhq/skein/pkg/history/sqlite"
	"github.com/skeinhq/skein/pkg/logger"
)

var userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")

type chatCommander struct {
	model         string
	openaiBase    string
	xaiBase       string
	persona       string
	historyDriver string
	sqlitePath    string
	postgresURL   string
	configDir     string
	debug         bool

	cfg    *config.Config
	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session with an LLM provider.

Messages stream to the terminal as they arrive. Reasoning models show
their thinking in a dimmed block above the answer, and web-search turns
list their sources below it. Conversations can be persisted with the
sqlite or postgres history drivers; the default memory driver forgets
everything on exit.

In-session commands:
  /new      Start a fresh conversation
  /search   Enable web search for the next message only
  /image    Generate an image from the next message only
  /exit     Quit (Ctrl+D also works)

Examples:
  skein chat
  skein chat -m o1-mini
  skein chat -m grok-3 --history-driver sqlite`

const chatShortDesc string = "Interactive streaming LLM chat"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	chatFlagKeys := []string{
		config.FlagModel,
		config.FlagOpenAIBase,
		config.FlagXAIBase,
		config.FlagPersona,
		config.FlagHistoryDriver,
		config.FlagSQLite,
		config.FlagPostgres,
	}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ChatFlags, chatFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ChatFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagOpenAIBase, &cmder.openaiBase)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagXAIBase, &cmder.xaiBase)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagPersona, &cmder.persona)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagHistoryDriver, &cmder.historyDriver)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagPostgres, &cmder.postgresURL)

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	store, err := c.openHistory(os.Stdout)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	creds, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	sink := newTerminalSink(os.Stdout)

	eng, err := engine.New(engine.Options{
		Config: engine.Config{
			OpenAIBase:     c.cfg.API.OpenAIBase,
			XAIBase:        c.cfg.API.XAIBase,
			DefaultModel:   c.cfg.Models.Default,
			ReasoningModel: c.cfg.Models.Reasoning,
			SearchModel:    c.cfg.Models.Search,
			ImageModel:     c.cfg.Models.Image,
			Persona: engine.Persona{
				Name:         c.cfg.Persona.Name,
				SystemPrompt: c.cfg.Persona.SystemPrompt,
				Knowledge:    c.cfg.Persona.Knowledge,
			},
		},
		Sink:        sink,
		Credentials: creds,
		History:     store,
		Continuity:  dotdir.NewSessionStore(c.configDir),
		Logger:      c.logger,
		Render:      cliui.RenderMarkdown,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	c.printBanner()

	scanner := bufio.NewScanner(os.Stdin)
	flags := &engine.Flags{}

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if c.handleCommand(input, eng, flags) {
				break
			}
			continue
		}

		// Errors during streaming surface through the sink; SendTurn only
		// returns hard failures like a broken history store.
		if err := eng.SendTurn(context.Background(), "", flags, input); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		}

		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// handleCommand dispatches a slash command. Returns true when the REPL
// should exit.
func (c *chatCommander) handleCommand(input string, eng *engine.Engine, flags *engine.Flags) bool {
	switch input {
	case "/exit":
		return true
	case "/new":
		if err := eng.ResetConversation(); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			return false
		}
		fmt.Printf("  %s New conversation started.\n\n", cliui.SuccessMark)
	case "/search":
		flags.WebSearch = true
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Web search enabled for the next message."))
	case "/image":
		flags.Image = true
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Image generation enabled for the next message."))
	case "/help":
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("/new  /search  /image  /exit"))
	default:
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Unknown command. Try /help."))
	}
	return false
}

func (c *chatCommander) printBanner() {
	fmt.Println()
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(c.cfg.Models.Default),
	)
	if c.cfg.Persona.Name != "" {
		fmt.Printf("  %s %s\n",
			cliui.KeyStyle.Render("Persona:"),
			cliui.NameStyle.Render(c.cfg.Persona.Name),
		)
	}
	if c.cfg.History.Driver != "" && c.cfg.History.Driver != "memory" {
		fmt.Printf("  %s %s\n",
			cliui.KeyStyle.Render("History:"),
			cliui.DimStyle.Render(c.cfg.History.Driver),
		)
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Type a message and press Enter. /help for commands, /exit to quit."))
}

// openHistory builds the conversation store named by the history driver,
// reporting progress on w since the sqlite and postgres drivers can block.
func (c *chatCommander) openHistory(w io.Writer) (history.Store, error) {
	driver := c.cfg.History.Driver
	if driver == "" {
		driver = "memory"
	}

	var store history.Store
	err := cliui.Step(w, "Opening "+driver+" history", func() error {
		switch driver {
		case "memory":
			store = inmemory.NewStore()
			return nil

		case "sqlite":
			path := c.cfg.History.SQLitePath
			if path == "" {
				dir, err := dotdir.NewManager().Target(c.configDir)
				if err != nil {
					return fmt.Errorf("resolving history path: %w", err)
				}
				path = filepath.Join(dir, "history.db")
			}
			var err error
			store, err = sqlite.NewStore(path)
			return err

		case "postgres":
			if c.cfg.History.PostgresURL == "" {
				return fmt.Errorf("history driver %q requires --postgres or history.postgres_url", driver)
			}
			var err error
			store, err = postgres.NewStore(context.Background(), c.cfg.History.PostgresURL)
			return err

		default:
			return fmt.Errorf("unknown history driver: %q (valid: memory, sqlite, postgres)", driver)
		}
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}
