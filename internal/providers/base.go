// Package providers defines the chat backend interface used for utterances
// that match no local command.
package providers

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when a backend answers with no text.
var ErrEmptyReply = errors.New("empty reply from model")

// Turn is one completed exchange passed back to the model as context.
type Turn struct {
	User  string
	Reply string
}

// ChatBackend is the interface for all conversational backends.
type ChatBackend interface {
	// Reply sends message with the prior turns and returns the model's text.
	Reply(ctx context.Context, history []Turn, message string) (string, error)

	// Model returns the model identifier.
	Model() string

	// Close releases the underlying client.
	Close() error
}
