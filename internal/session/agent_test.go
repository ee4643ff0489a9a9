// internal/session/agent_test.go
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/user/chatstream/internal/types"
)

func TestAgentSendScenarioA(t *testing.T) {
	backend := framesOf(answerFrame("Hi"), answerFrame(" there"), idFrame("abc123"))
	agent := NewAgent(backend)

	var deltas []string
	result, err := agent.Send(context.Background(), types.NewTempConversationID(), nil, "hello", func(delta string) {
		deltas = append(deltas, delta)
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "Hi there" {
		t.Errorf("expected 'Hi there', got %q", result.Text)
	}
	if result.ConversationID != "abc123" {
		t.Errorf("expected resolved id 'abc123', got %q", result.ConversationID)
	}
	if !result.Promoted {
		t.Error("expected promotion for temp conversation")
	}
	if strings.Join(deltas, "|") != "Hi| there" {
		t.Errorf("expected fragment-append deliveries, got %v", deltas)
	}
}

func TestAgentOmitsTempIDOnWire(t *testing.T) {
	backend := framesOf()
	agent := NewAgent(backend)

	temp := types.NewTempConversationID()
	if _, err := agent.Send(context.Background(), temp, nil, "q", nil); err != nil {
		t.Fatal(err)
	}
	// The agent passes the local id through; the protocol client is the
	// layer that leaves temp ids off the wire.
	if got := backend.lastPrompt().ConversationID; got != temp {
		t.Errorf("expected local id in prompt, got %q", got)
	}
}

func TestAgentOpenError(t *testing.T) {
	boom := errors.New("connection refused")
	backend := &fakeBackend{openErr: boom}
	agent := NewAgent(backend)

	called := false
	_, err := agent.Send(context.Background(), "abc123", nil, "q", func(string) { called = true })
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error surfaced, got %v", err)
	}
	if called {
		t.Error("no fragment must be delivered when the stream never opened")
	}
}

func TestAgentMidStreamError(t *testing.T) {
	boom := errors.New("connection reset")
	backend := &fakeBackend{
		newStream: func(ctx context.Context) *scriptedStream {
			return &scriptedStream{ctx: ctx, frames: []*types.StreamFrame{answerFrame("partial")}, err: boom}
		},
	}
	agent := NewAgent(backend)

	result, err := agent.Send(context.Background(), "abc123", nil, "q", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected mid-stream error surfaced, got %v", err)
	}
	if result != nil {
		t.Error("partial text must not be promoted to a success result")
	}
}

func TestAgentEmptyStreamIsSuccess(t *testing.T) {
	backend := framesOf()
	agent := NewAgent(backend)

	result, err := agent.Send(context.Background(), "abc123", nil, "q", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "" {
		t.Errorf("expected empty text, got %q", result.Text)
	}
	if result.ConversationID != "abc123" {
		t.Errorf("expected requested id kept, got %q", result.ConversationID)
	}
}

func TestAgentOneSendInFlightPerConversation(t *testing.T) {
	step := make(chan struct{})
	backend := &fakeBackend{
		newStream: func(ctx context.Context) *scriptedStream {
			return &scriptedStream{ctx: ctx, frames: []*types.StreamFrame{answerFrame("x")}, step: step}
		},
	}
	agent := NewAgent(backend)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := agent.Send(context.Background(), "abc123", nil, "first", nil); err != nil {
			t.Error(err)
		}
	}()

	// Let the first send open its stream, then race a second one.
	step <- struct{}{}
	if _, err := agent.Send(context.Background(), "abc123", nil, "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for concurrent send, got %v", err)
	}

	step <- struct{}{} // drain to EOF
	wg.Wait()

	// The gate is per conversation: a different conversation sends freely.
	other := framesOf(answerFrame("y"))
	agent2 := NewAgent(other)
	if _, err := agent2.Send(context.Background(), "other", nil, "q", nil); err != nil {
		t.Fatal(err)
	}
}
