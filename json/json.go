// Package json encodes datasage values for files and HTTP responses: the
// persisted chat session envelope and the JSON view of dataset analyses.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/datasage"
)

// envelope is the v1 wire format for a persisted session. The dataset is
// referenced by name only; callers reattach the loaded data.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	Dataset   string       `json:"dataset,omitempty"`
	Input     string       `json:"input,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s *datasage.Session) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        s.ID,
		Input:     s.Input,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	if s.Dataset != nil {
		env.Dataset = s.Dataset.Name
	}
	for i, msg := range s.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
// The returned session has no Dataset and, when the last message is an
// assistant reply, Last set from it.
func UnmarshalSession(data []byte) (*datasage.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	s := &datasage.Session{
		ID:        env.ID,
		Input:     env.Input,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  make([]datasage.Message, len(env.Messages)),
	}
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		s.Messages[i] = msg
	}
	if n := len(s.Messages); n > 0 {
		if am, ok := s.Messages[n-1].(datasage.AssistantMessage); ok {
			s.Last = &datasage.Completion{Text: am.Content, Model: am.Model, StopReason: am.StopReason, Usage: am.Usage}
		}
	}
	return s, nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
func Save(path string, s *datasage.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (*datasage.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}

// Write encodes v as indented JSON followed by a newline.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
