// internal/session/agent.go
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/user/chatstream/internal/types"
)

var ErrBusy = errors.New("send already in flight")

// ProgressFunc receives each newly observed answer fragment in arrival
// order. Deliveries are deltas, not running totals; the final accumulated
// text is carried by the TurnResult.
type ProgressFunc func(delta string)

// TurnResult is the terminal outcome of one successful send.
type TurnResult struct {
	Text           string
	ConversationID types.ConversationID
	Promoted       bool
}

// Agent issues one outbound request per user turn and drives the resulting
// stream to completion. At most one send is in flight per conversation; a
// second concurrent send fails fast with ErrBusy. The agent does not retry
// or deduplicate: re-invoking Send after a failure is a new turn, and retry
// policy is a caller concern.
type Agent struct {
	backend types.Backend

	mu    sync.Mutex
	gates map[types.ConversationID]*semaphore.Weighted
}

func NewAgent(backend types.Backend) *Agent {
	return &Agent{
		backend: backend,
		gates:   make(map[types.ConversationID]*semaphore.Weighted),
	}
}

// gate returns the per-conversation in-flight semaphore, creating it on
// first use.
func (a *Agent) gate(id types.ConversationID) *semaphore.Weighted {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.gates[id]
	if !ok {
		g = semaphore.NewWeighted(1)
		a.gates[id] = g
	}
	return g
}

// Send performs one user turn: open the chat stream, fold its frames into
// the answer, report fragments through onDelta, and resolve the
// conversation identity on completion. A transport failure, before or
// during the stream, returns an error and never reaches the success path;
// partially accumulated text is discarded with it.
func (a *Agent) Send(ctx context.Context, conv types.ConversationID, inputs map[string]string, query string, onDelta ProgressFunc) (*TurnResult, error) {
	g := a.gate(conv)
	if !g.TryAcquire(1) {
		return nil, fmt.Errorf("%w: conversation %s", ErrBusy, conv)
	}
	defer g.Release(1)

	stream, err := a.backend.OpenChat(ctx, types.ChatPrompt{
		ConversationID: conv,
		Inputs:         inputs,
		Query:          query,
	})
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", err)
	}
	defer stream.Close()

	var acc Accumulator
	for {
		frame, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}
		if delta := acc.Feed(frame); delta != "" && onDelta != nil {
			onDelta(delta)
		}
	}

	text, observed := acc.Result()
	return &TurnResult{
		Text:           text,
		ConversationID: Reconcile(conv, observed),
		Promoted:       Promotes(conv, observed),
	}, nil
}
