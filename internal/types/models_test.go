// internal/types/models_test.go
package types

import (
	"encoding/json"
	"testing"
)

func TestTurnTerminal(t *testing.T) {
	tests := []struct {
		status   TurnStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusStreaming, false},
		{StatusSuccess, true},
		{StatusError, true},
	}
	for _, tt := range tests {
		turn := &Turn{Status: tt.status}
		if got := turn.Terminal(); got != tt.terminal {
			t.Errorf("Terminal() with status %s: expected %v, got %v", tt.status, tt.terminal, got)
		}
	}
}

func TestConversationCommitted(t *testing.T) {
	temp := &Conversation{ID: NewTempConversationID(), Label: "New Conversation"}
	if temp.Committed() {
		t.Error("temp conversation should not be committed")
	}
	perm := &Conversation{ID: "abc123", Label: "New Conversation"}
	if !perm.Committed() {
		t.Error("permanent conversation should be committed")
	}
	empty := &Conversation{}
	if empty.Committed() {
		t.Error("identity-less conversation should not be committed")
	}
}

func TestAnswerChunkDecode(t *testing.T) {
	data := `{"event":"message","answer":"Hi","conversation_id":"abc123","extra":42}`
	var chunk AnswerChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		t.Fatal(err)
	}
	if chunk.Answer != "Hi" {
		t.Errorf("expected answer 'Hi', got %q", chunk.Answer)
	}
	if chunk.ConversationID != "abc123" {
		t.Errorf("expected conversation_id 'abc123', got %q", chunk.ConversationID)
	}
}
