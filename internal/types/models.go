// internal/types/models.go
package types

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnStatus tracks a turn through its lifecycle.
type TurnStatus string

const (
	StatusPending   TurnStatus = "pending"
	StatusStreaming TurnStatus = "streaming"
	StatusSuccess   TurnStatus = "success"
	StatusError     TurnStatus = "error"
)

// Turn is a single message in a conversation log. Content grows in place
// while the turn is streaming and freezes once the status is terminal.
type Turn struct {
	ID        TurnID     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Status    TurnStatus `json:"status"`
	IsHistory bool       `json:"is_history"`
}

// Terminal reports whether the turn can no longer change.
func (t *Turn) Terminal() bool {
	return t.Status == StatusSuccess || t.Status == StatusError
}

// Conversation is a directory entry. The id is temporary until the backend
// confirms the conversation on the first exchange.
type Conversation struct {
	ID    ConversationID `json:"id"`
	Label string         `json:"label"`
}

// Committed reports whether the conversation holds a backend-assigned id.
func (c *Conversation) Committed() bool {
	return c.ID != "" && !c.ID.IsTemp()
}

// AppConfig is a stored backend application configuration.
type AppConfig struct {
	ID          AppID     `json:"id"`
	Name        string    `json:"name"`
	BaseURL     string    `json:"base_url"`
	APIKey      string    `json:"api_key"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
