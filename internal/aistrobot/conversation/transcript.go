// Package conversation holds the chat state: the append-only transcript and
// the controller that turns user input into completion requests.
package conversation

import (
	"sync"

	"github.com/longkey1/aistrobot/internal/aistrobot"
)

// Transcript is the append-only, in-memory history of turns.
// It is safe for concurrent use; appends are serialized.
type Transcript struct {
	mu    sync.RWMutex
	turns []aistrobot.Turn
}

// Append adds turn at the end and returns the new length.
func (t *Transcript) Append(turn aistrobot.Turn) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
	return len(t.turns)
}

// Turns returns a snapshot of the transcript in creation order.
func (t *Transcript) Turns() []aistrobot.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]aistrobot.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}
