package aistrobot

import (
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a turn.
type Speaker int

const (
	User Speaker = iota
	Assistant
)

func (s Speaker) String() string {
	switch s {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Label returns the name shown next to the speaker's messages on screen.
func (s Speaker) Label() string {
	if s == User {
		return "You"
	}
	return "AistroBot"
}

// Turn represents a single message in the transcript.
// Turns are values; once appended to a transcript they are never modified.
type Turn struct {
	ID        string    `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	ReplyTo   string    `json:"reply_to,omitempty"` // ID of the user turn an assistant turn answers
	CreatedAt time.Time `json:"created_at"`
}

// NewUserTurn creates a user turn carrying text exactly as typed.
func NewUserTurn(text string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Speaker:   User,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn answering the turn with ID replyTo.
func NewAssistantTurn(replyTo, text string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Speaker:   Assistant,
		Text:      text,
		ReplyTo:   replyTo,
		CreatedAt: time.Now(),
	}
}

// GetShortID returns the first 8 characters of the turn ID.
func (t Turn) GetShortID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}
