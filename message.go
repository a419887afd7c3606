package datasage

import "time"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
type Message interface {
	isMessage()
	Role() Role
	Text() string
}

// UserMessage represents a message from the user.
type UserMessage struct {
	Content   string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// Text returns the message content.
func (m UserMessage) Text() string { return m.Content }

// AssistantMessage represents a completion recorded in a conversation.
type AssistantMessage struct {
	Content    string
	Model      string
	StopReason StopReason
	Usage      Usage
	Timestamp  time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Text returns the message content.
func (m AssistantMessage) Text() string { return m.Content }

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
