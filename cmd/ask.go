/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message and print the reply",
	Long: `Send one message to the completion API and print the reply.

If no message is provided as an argument, it reads from stdin.
The API key stored with 'aistrobot key set' (or '/key' in the chat screen) is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = string(input)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		restored, err := a.controller.Restore()
		if err != nil {
			return fmt.Errorf("restoring API key: %w", err)
		}
		if !restored {
			return fmt.Errorf("no API key configured. Run 'aistrobot key set' first (get a key at %s)", apiKeysURL)
		}

		results, ok := a.controller.Submit(cmd.Context(), message)
		if !ok {
			return fmt.Errorf("message is empty")
		}

		result := <-results
		if result.Err != nil {
			return fmt.Errorf("chat request failed: %w", result.Err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Answer.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
