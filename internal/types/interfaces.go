// internal/types/interfaces.go
package types

import "context"

// AnswerChunk is the decoded payload of a single stream frame. Fields the
// session core does not consume are dropped at decode time.
type AnswerChunk struct {
	Event          string `json:"event,omitempty"`
	Answer         string `json:"answer,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
}

// StreamFrame is one decoded transport frame. Chunk is nil when the payload
// failed to decode; the raw text is kept for diagnostics either way.
type StreamFrame struct {
	Raw   string
	Chunk *AnswerChunk
}

// ChatPrompt is one outbound user turn. The conversation id is omitted on
// the wire while it is still temporary so the backend creates and names the
// conversation itself.
type ChatPrompt struct {
	ConversationID ConversationID
	Inputs         map[string]string
	Query          string
}

// ChatStream is a lazy, finite, non-restartable sequence of frames. Next
// returns io.EOF when the transport ends and the context's error when the
// stream was aborted.
type ChatStream interface {
	Next() (*StreamFrame, error)
	Close() error
}

// ConversationInfo is one entry of the backend's conversation list.
type ConversationInfo struct {
	ID   ConversationID
	Name string
}

// ExchangeRecord is one persisted query/answer pair from the history
// endpoint, oldest first.
type ExchangeRecord struct {
	ID     string
	Query  string
	Answer string
	Inputs map[string]string
}

// InputField describes one session variable the backend requires before the
// first message of a conversation.
type InputField struct {
	Label    string
	Variable string
	Required bool
}

// AppParameters is the backend's per-application configuration surface.
type AppParameters struct {
	UserInputForm []InputField
}

// Backend is the remote conversational backend at its interface boundary.
type Backend interface {
	OpenChat(ctx context.Context, prompt ChatPrompt) (ChatStream, error)
	Conversations(ctx context.Context) ([]ConversationInfo, error)
	History(ctx context.Context, id ConversationID) ([]ExchangeRecord, error)
	Parameters(ctx context.Context) (*AppParameters, error)
}

// AppStore is the application-management collaborator: plain CRUD over
// stored backend configurations.
type AppStore interface {
	List(ctx context.Context) ([]*AppConfig, error)
	Get(ctx context.Context, id AppID) (*AppConfig, error)
	GetByName(ctx context.Context, name string) (*AppConfig, error)
	Add(ctx context.Context, app *AppConfig) error
	Update(ctx context.Context, app *AppConfig) error
	Delete(ctx context.Context, id AppID) error
}
