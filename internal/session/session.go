// internal/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/user/chatstream/internal/types"
)

var (
	ErrMissingInput   = errors.New("required input missing")
	ErrNoConversation = errors.New("no active conversation")
)

// Session coordinates the conversation directory, the message log, and the
// request agent for one open chat view. All mutable state lives behind one
// mutex; the stream itself is consumed outside the lock and its effects are
// re-applied under it, guarded by an epoch counter so a stream opened
// against a conversation that has since been switched away can only be
// discarded, never misapplied.
type Session struct {
	backend types.Backend
	agent   *Agent

	mu     sync.Mutex
	dir    *Directory
	log    *MessageLog
	inputs map[string]string
	form   []types.InputField
	epoch  uint64
}

func New(backend types.Backend) *Session {
	return &Session{
		backend: backend,
		agent:   NewAgent(backend),
		dir:     NewDirectory(),
		log:     NewMessageLog(),
		inputs:  make(map[string]string),
	}
}

// LoadConversations populates the directory from the backend's
// conversation list.
func (s *Session) LoadConversations(ctx context.Context) error {
	infos, err := s.backend.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("fetch conversation list: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir.SetEntries(infos)
	return nil
}

// NewConversation creates a local, uncommitted conversation and selects it.
// The backend's parameters are fetched so required session variables are
// known before the first send. The conversation stays purely local until a
// first exchange confirms it; abandoning it without sending loses it, which
// is accepted behavior.
func (s *Session) NewConversation(ctx context.Context, label string) (*types.Conversation, error) {
	params, err := s.backend.Parameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch app parameters: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = params.UserInputForm
	s.epoch++
	s.log.Reset()
	entry := s.dir.AddTemp(label)
	return &types.Conversation{ID: entry.ID, Label: entry.Label}, nil
}

// Switch makes the given conversation active: the live log is cleared and
// the history is refetched before any new send is accepted. Session
// variables are restored from the first history record when present;
// otherwise the current values are kept.
func (s *Session) Switch(ctx context.Context, id types.ConversationID) error {
	s.mu.Lock()
	if err := s.dir.Select(id); err != nil {
		s.mu.Unlock()
		return err
	}
	s.epoch++
	epoch := s.epoch
	s.log.Reset()
	s.mu.Unlock()

	if id.IsTemp() {
		return nil
	}

	records, err := s.backend.History(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		slog.Debug("discarding history fetch for superseded switch", "conversation_id", string(id))
		return nil
	}
	s.log.LoadHistory(records)
	if len(records) > 0 && len(records[0].Inputs) > 0 {
		inputs := make(map[string]string, len(records[0].Inputs))
		for k, v := range records[0].Inputs {
			inputs[k] = v
		}
		s.inputs = inputs
	}
	return nil
}

// SetInput records one session variable. Values are carried unchanged into
// every subsequent request of the conversation.
func (s *Session) SetInput(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs[name] = value
}

// Input returns the recorded value of one session variable.
func (s *Session) Input(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs[name]
}

// RequiredInputs returns the form fields the backend declared for this
// application.
func (s *Session) RequiredInputs() []types.InputField {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.InputField, len(s.form))
	copy(out, s.form)
	return out
}

// missingInputs returns the required variables that have no value yet.
// Caller must hold the mutex.
func (s *Session) missingInputs() []string {
	var missing []string
	for _, field := range s.form {
		if field.Required && s.inputs[field.Variable] == "" {
			missing = append(missing, field.Variable)
		}
	}
	sort.Strings(missing)
	return missing
}

// Send submits one user turn for the active conversation and streams the
// answer into the log. onDelta, when non-nil, receives each answer fragment
// in arrival order for as long as the conversation is still the active one.
// Validation failures surface before any network call is made.
func (s *Session) Send(ctx context.Context, query string, onDelta ProgressFunc) (*TurnResult, error) {
	s.mu.Lock()
	conv := s.dir.Active()
	if conv == "" {
		s.mu.Unlock()
		return nil, ErrNoConversation
	}
	if missing := s.missingInputs(); len(missing) > 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}
	epoch := s.epoch
	inputs := make(map[string]string, len(s.inputs))
	for k, v := range s.inputs {
		inputs[k] = v
	}
	userID, assistantID := s.log.AppendExchange(query)
	s.mu.Unlock()

	result, err := s.agent.Send(ctx, conv, inputs, query, func(delta string) {
		s.mu.Lock()
		current := s.epoch == epoch
		if current {
			s.log.AppendFragment(assistantID, delta)
		}
		s.mu.Unlock()
		if current && onDelta != nil {
			onDelta(delta)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.epoch == epoch {
			s.log.Finish(assistantID, types.StatusError, "")
			s.log.SetStatus(userID, types.StatusError)
		}
		return nil, err
	}

	// The directory rewrite happens even if the user has switched away in
	// the meantime: the uncommitted entry is still the one this exchange
	// was issued for, and the transition fires exactly once.
	if result.Promoted {
		if perr := s.dir.Promote(conv, result.ConversationID); perr != nil {
			slog.Warn("conversation promotion failed", "temp_id", string(conv), "error", perr)
		}
	}

	if s.epoch != epoch {
		slog.Debug("discarding completed stream for switched conversation",
			"conversation_id", string(conv))
		return result, nil
	}
	s.log.Finish(assistantID, types.StatusSuccess, result.Text)
	s.log.SetStatus(userID, types.StatusSuccess)
	return result, nil
}

// Messages returns the visible log of the active conversation, history
// followed by live turns.
func (s *Session) Messages() []*types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Messages()
}

// Entries returns the conversation directory in order.
func (s *Session) Entries() []*types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Entries()
}

// Active returns the active conversation id, or "".
func (s *Session) Active() types.ConversationID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Active()
}

// ActiveEntry returns a copy of the active directory entry, or nil.
func (s *Session) ActiveEntry() *types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.dir.ActiveEntry()
	if entry == nil {
		return nil
	}
	cp := *entry
	return &cp
}
