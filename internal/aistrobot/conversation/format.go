package conversation

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/aistrobot/internal/aistrobot"
)

// FormatTurn renders a turn as "<Label>> text". Continuation lines are
// indented under the first so multi-line replies stay readable.
func FormatTurn(turn aistrobot.Turn) string {
	prefix := turn.Speaker.Label() + "> "
	indent := strings.Repeat(" ", len(prefix))
	lines := strings.Split(turn.Text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return prefix + strings.Join(lines, "\n")
}

// Render writes every turn, separated by blank lines.
func Render(w io.Writer, turns []aistrobot.Turn) error {
	for i, turn := range turns {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, FormatTurn(turn)); err != nil {
			return err
		}
	}
	return nil
}
