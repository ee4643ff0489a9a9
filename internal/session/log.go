// internal/session/log.go
package session

import (
	"github.com/user/chatstream/internal/types"
)

// MessageLog is the ordered message list of one conversation: persisted
// history followed by turns of the current live session. The visible log is
// always recomputed from the two halves, never cached, so the projection
// cannot drift.
type MessageLog struct {
	history []*types.Turn
	live    []*types.Turn
}

func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// LoadHistory replaces the history half with the given exchange records.
// Each record expands to a user turn and an assistant turn, both terminal
// and marked as history so they are never re-streamed.
func (l *MessageLog) LoadHistory(records []types.ExchangeRecord) {
	history := make([]*types.Turn, 0, len(records)*2)
	for _, rec := range records {
		history = append(history,
			&types.Turn{
				ID:        types.HistoryTurnID(rec.ID, "query"),
				Role:      types.RoleUser,
				Content:   rec.Query,
				Status:    types.StatusSuccess,
				IsHistory: true,
			},
			&types.Turn{
				ID:        types.HistoryTurnID(rec.ID, "answer"),
				Role:      types.RoleAssistant,
				Content:   rec.Answer,
				Status:    types.StatusSuccess,
				IsHistory: true,
			},
		)
	}
	l.history = history
}

// Reset drops both halves. Used when switching to a conversation whose
// history has not been fetched yet.
func (l *MessageLog) Reset() {
	l.history = nil
	l.live = nil
}

// AppendExchange appends a pending user turn and a streaming assistant turn
// for one outbound query and returns their ids.
func (l *MessageLog) AppendExchange(query string) (userID, assistantID types.TurnID) {
	user := &types.Turn{
		ID:      types.NewTurnID(),
		Role:    types.RoleUser,
		Content: query,
		Status:  types.StatusPending,
	}
	assistant := &types.Turn{
		ID:     types.NewTurnID(),
		Role:   types.RoleAssistant,
		Status: types.StatusStreaming,
	}
	l.live = append(l.live, user, assistant)
	return user.ID, assistant.ID
}

// AppendFragment grows a streaming live turn in place. Fragments for
// unknown or already terminal turns are dropped.
func (l *MessageLog) AppendFragment(id types.TurnID, delta string) {
	turn := l.findLive(id)
	if turn == nil || turn.Terminal() {
		return
	}
	turn.Content += delta
}

// Finish moves a live turn to a terminal status. When finalText is
// non-empty it replaces the accumulated content, so consumers that only
// consult the terminal state see the full answer.
func (l *MessageLog) Finish(id types.TurnID, status types.TurnStatus, finalText string) {
	turn := l.findLive(id)
	if turn == nil {
		return
	}
	turn.Status = status
	if finalText != "" {
		turn.Content = finalText
	}
}

// SetStatus updates the status of a live turn.
func (l *MessageLog) SetStatus(id types.TurnID, status types.TurnStatus) {
	if turn := l.findLive(id); turn != nil {
		turn.Status = status
	}
}

// Messages returns the visible log, history followed by live, as a fresh
// slice computed on every call.
func (l *MessageLog) Messages() []*types.Turn {
	out := make([]*types.Turn, 0, len(l.history)+len(l.live))
	out = append(out, l.history...)
	out = append(out, l.live...)
	return out
}

func (l *MessageLog) Len() int {
	return len(l.history) + len(l.live)
}

// History turns are immutable once fetched, so lookups only scan live.
func (l *MessageLog) findLive(id types.TurnID) *types.Turn {
	for _, turn := range l.live {
		if turn.ID == id {
			return turn
		}
	}
	return nil
}
