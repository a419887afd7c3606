package json

import (
	"fmt"
	"time"

	"github.com/fwojciec/datasage"
)

// messageDTO is the JSON representation of a Message with a type discriminator.
type messageDTO struct {
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Model      *string   `json:"model,omitempty"`
	StopReason *string   `json:"stop_reason,omitempty"`
	Usage      *usageDTO `json:"usage,omitempty"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func marshalMessage(msg datasage.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case datasage.UserMessage:
		return messageDTO{Type: "user", Content: m.Content, Timestamp: m.Timestamp}, nil
	case datasage.AssistantMessage:
		sr := string(m.StopReason)
		return messageDTO{
			Type:       "assistant",
			Content:    m.Content,
			Timestamp:  m.Timestamp,
			Model:      &m.Model,
			StopReason: &sr,
			Usage:      &usageDTO{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens},
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (datasage.Message, error) {
	switch dto.Type {
	case "user":
		return datasage.UserMessage{Content: dto.Content, Timestamp: dto.Timestamp}, nil
	case "assistant":
		m := datasage.AssistantMessage{Content: dto.Content, Timestamp: dto.Timestamp}
		if dto.Model != nil {
			m.Model = *dto.Model
		}
		if dto.StopReason != nil {
			m.StopReason = datasage.StopReason(*dto.StopReason)
		}
		if dto.Usage != nil {
			m.Usage = datasage.Usage{InputTokens: dto.Usage.InputTokens, OutputTokens: dto.Usage.OutputTokens}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", dto.Type)
	}
}
