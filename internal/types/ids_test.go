// internal/types/ids_test.go
package types

import (
	"strings"
	"testing"
)

func TestNewTempConversationID(t *testing.T) {
	id := NewTempConversationID()
	if !strings.HasPrefix(string(id), TempIDPrefix) {
		t.Errorf("expected temp prefix, got %s", id)
	}
	if !id.IsTemp() {
		t.Error("expected IsTemp to be true")
	}
}

func TestTempIDsUnique(t *testing.T) {
	a := NewTempConversationID()
	b := NewTempConversationID()
	if a == b {
		t.Errorf("expected distinct ids, got %s twice", a)
	}
}

func TestPermanentIDIsNotTemp(t *testing.T) {
	id := ConversationID("abc123")
	if id.IsTemp() {
		t.Errorf("expected %s to be permanent", id)
	}
}

func TestHistoryTurnID(t *testing.T) {
	id := HistoryTurnID("ex1", "query")
	if id != TurnID("ex1-query") {
		t.Errorf("expected 'ex1-query', got %s", id)
	}
}
