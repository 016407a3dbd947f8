// Package conversation holds the in-memory history of exchanges with the
// chat backend. Nothing is persisted; history lives as long as the process.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/providers"
	"github.com/dayuer/voxbot/internal/utils"
)

// Exchange is one successful user/model round trip.
type Exchange struct {
	User  string
	Reply string
	At    time.Time
}

// Session forwards utterances to a backend along with every prior exchange.
type Session struct {
	backend providers.ChatBackend
	now     func() time.Time

	mu      sync.Mutex
	history []Exchange
}

// NewSession creates an empty session over backend.
func NewSession(backend providers.ChatBackend) *Session {
	return &Session{backend: backend, now: time.Now}
}

// Send asks the backend for a reply. The exchange is recorded only when the
// call succeeds; errors are returned unchanged.
func (s *Session) Send(ctx context.Context, utterance string) (string, error) {
	s.mu.Lock()
	turns := make([]providers.Turn, len(s.history))
	for i, e := range s.history {
		turns[i] = providers.Turn{User: e.User, Reply: e.Reply}
	}
	s.mu.Unlock()

	reply, err := s.backend.Reply(ctx, turns, utterance)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, Exchange{User: utterance, Reply: reply, At: s.now()})
	s.mu.Unlock()

	logging.Debug(logging.Fields{
		"model":   s.backend.Model(),
		"turns":   s.Len(),
		"preview": utils.TruncateString(reply, 80, ""),
	}, "Fallback reply received")
	return reply, nil
}

// History returns a copy of the exchanges so far, oldest first.
func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of recorded exchanges.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
