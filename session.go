package datasage

import (
	"time"

	"github.com/google/uuid"
)

// Session is the state of one user interaction: the dataset in use, the
// current input and the conversation so far. Sessions are not shared
// between goroutines.
type Session struct {
	ID        string
	Dataset   *Dataset
	Input     string
	Messages  []Message
	Last      *Completion
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession starts a session over d, which may be nil.
func NewSession(d *Dataset) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Dataset:   d,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record appends a completed exchange to the conversation.
func (s *Session) Record(input string, c Completion) {
	now := time.Now()
	s.Input = input
	s.Messages = append(s.Messages,
		UserMessage{Content: input, Timestamp: now},
		AssistantMessage{
			Content:    c.Text,
			Model:      c.Model,
			StopReason: c.StopReason,
			Usage:      c.Usage,
			Timestamp:  now,
		},
	)
	s.Last = &c
	s.UpdatedAt = now
}

// Reset clears the conversation but keeps the dataset.
func (s *Session) Reset() {
	s.Input = ""
	s.Messages = nil
	s.Last = nil
	s.UpdatedAt = time.Now()
}

// Exchanges returns the number of recorded user turns.
func (s *Session) Exchanges() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role() == RoleUser {
			n++
		}
	}
	return n
}
