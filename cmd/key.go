package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API key",
	Long: `Manage the API key used to authenticate completion requests.
The key is kept in the local settings store and read back on every launch.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the API key",
	Long: `Store the API key.
Without an argument the key is read from the terminal without echo,
or from stdin when stdin is not a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := readKey(args)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.SetCredential(value); err != nil {
			return fmt.Errorf("setting API key: %w", err)
		}
		fmt.Fprintf(os.Stderr, "API key saved to %s (%s)\n", a.settingsPath, maskToken(value))
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key (masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		key, ok, err := a.creds.Get()
		if err != nil {
			return fmt.Errorf("reading API key: %w", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), maskToken(key))
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.creds.Clear(); err != nil {
			return fmt.Errorf("clearing API key: %w", err)
		}
		fmt.Fprintln(os.Stderr, "API key removed.")
		return nil
	},
}

// readKey takes the key from args, the terminal or stdin, in that order
func readKey(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if readline.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := readline.Password("API key: ")
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimRight(string(input), "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyClearCmd)
}
