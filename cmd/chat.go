/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/longkey1/aistrobot/internal/aistrobot"
	"github.com/longkey1/aistrobot/internal/aistrobot/conversation"
)

const apiKeysURL = "https://platform.openai.com/account/api-keys"

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat screen (default command)",
	Long: `Open the interactive chat screen.

Each line you enter is sent to the completion API; the reply is printed
as soon as it arrives, and you can keep typing while waiting.
The conversation lives only as long as the screen is open.

Type '/help' inside the screen for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/exit",
	})
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	a, err := newApp(conversation.WithObserver(func(turn aistrobot.Turn) {
		if turn.Speaker == aistrobot.Assistant {
			fmt.Fprintf(out, "\n%s\n\n", conversation.FormatTurn(turn))
		}
	}))
	if err != nil {
		return err
	}
	defer a.Close()

	restored, err := a.controller.Restore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: stored API key could not be used: %v\n", err)
		restored = false
	}

	s := &screen{rl: rl, out: out, app: a}
	s.printHeader(restored)
	return s.run(cmd)
}

// screen is the interactive chat loop
type screen struct {
	rl  *readline.Instance
	out io.Writer
	app *app
}

func (s *screen) printHeader(configured bool) {
	fmt.Fprintf(os.Stderr, "\n=== AistroBot ===\n")
	fmt.Fprintf(os.Stderr, "Model: %s\n", s.app.cfg.Model)
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	if !configured {
		fmt.Fprintf(os.Stderr, "No API key configured. Use '/key' to set one (get a key at %s)\n", apiKeysURL)
	}
	fmt.Fprintf(os.Stderr, "=================\n\n")
}

func (s *screen) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if s.handleSpecialCommand(input) {
				continue
			}
			break
		}

		// The reply is printed by the controller observer when it arrives.
		s.app.controller.Submit(ctx, line)
	}

	if pending := s.app.controller.Pending(); pending > 0 {
		fmt.Fprintf(os.Stderr, "Waiting for %d pending response(s)...\n", pending)
	}
	s.app.controller.Wait()
	fmt.Fprintln(os.Stderr, "Goodbye!")
	return nil
}

// handleSpecialCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func (s *screen) handleSpecialCommand(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /key [value]       - Set the API key (prompts without echo when no value is given)")
		fmt.Fprintln(os.Stderr, "  /transcript, /t    - Show the conversation so far")
		fmt.Fprintln(os.Stderr, "  /status, /s        - Show pending and unanswered messages")
		fmt.Fprintln(os.Stderr, "  /info, /i          - Show model, settings and API key")
		fmt.Fprintln(os.Stderr, "  /clear, /c         - Clear screen (Unix/Linux only)")
		fmt.Fprintln(os.Stderr, "  /exit, /quit       - Exit")
		fmt.Fprintln(os.Stderr, "  Ctrl+D             - Exit")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/key", "/k":
		s.setKey(arg)
		return true

	case "/transcript", "/t":
		fmt.Fprintln(s.out)
		conversation.Render(s.out, s.app.controller.Transcript())
		fmt.Fprintln(s.out)
		return true

	case "/status", "/s":
		stats := conversation.Count(s.app.controller.Exchanges())
		fmt.Fprintln(os.Stderr, "\nStatus:")
		fmt.Fprintf(os.Stderr, "  Waiting:    %d\n", stats.Awaiting)
		fmt.Fprintf(os.Stderr, "  Answered:   %d\n", stats.Answered)
		fmt.Fprintf(os.Stderr, "  Unanswered: %d\n", stats.Unanswered)
		for _, e := range s.app.controller.Exchanges() {
			if e.State == conversation.Unanswered {
				fmt.Fprintf(os.Stderr, "    - %q: %v\n", e.Question.Text, e.Err)
			}
		}
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/info", "/i":
		fmt.Fprintln(os.Stderr, "\nInformation:")
		fmt.Fprintf(os.Stderr, "  Model: %s\n", s.app.cfg.Model)
		fmt.Fprintf(os.Stderr, "  Settings: %s (%s)\n", s.app.settingsPath, s.app.cfg.SettingsBackend)
		if s.app.controller.Configured() {
			fmt.Fprintf(os.Stderr, "  API key: %s\n", maskToken(s.app.controller.APIKey()))
		} else {
			fmt.Fprintln(os.Stderr, "  API key: (not set)")
		}
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", len(s.app.controller.Transcript()))
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/clear", "/c":
		fmt.Fprint(s.out, "\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", name)
		return true
	}
}

func (s *screen) setKey(value string) {
	if value == "" {
		secret, err := s.rl.ReadPassword("API key: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cancelled.\n")
			return
		}
		value = strings.TrimSpace(string(secret))
	}

	if err := s.app.controller.SetCredential(value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "API key saved (%s)\n", maskToken(value))
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
