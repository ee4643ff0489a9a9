// internal/session/backend_test.go
package session

import (
	"context"
	"io"
	"sync"

	"github.com/user/chatstream/internal/types"
)

// scriptedStream replays a fixed frame sequence. When step is non-nil,
// every Next call waits for an allowance on it first, which lets tests
// interleave stream progress with session operations.
type scriptedStream struct {
	ctx    context.Context
	frames []*types.StreamFrame
	idx    int
	err    error // returned instead of io.EOF once frames are drained
	step   chan struct{}
}

func (s *scriptedStream) Next() (*types.StreamFrame, error) {
	if s.step != nil {
		select {
		case <-s.step:
		case <-s.ctx.Done():
			return nil, s.ctx.Err()
		}
	}
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	default:
	}
	if s.idx >= len(s.frames) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	f := s.frames[s.idx]
	s.idx++
	return f, nil
}

func (s *scriptedStream) Close() error { return nil }

// fakeBackend implements types.Backend against scripted data.
type fakeBackend struct {
	mu      sync.Mutex
	prompts []types.ChatPrompt

	openErr   error
	newStream func(ctx context.Context) *scriptedStream

	convs   []types.ConversationInfo
	history map[types.ConversationID][]types.ExchangeRecord
	params  types.AppParameters
}

func (b *fakeBackend) OpenChat(ctx context.Context, prompt types.ChatPrompt) (types.ChatStream, error) {
	b.mu.Lock()
	b.prompts = append(b.prompts, prompt)
	b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.newStream(ctx), nil
}

func (b *fakeBackend) Conversations(ctx context.Context) ([]types.ConversationInfo, error) {
	return b.convs, nil
}

func (b *fakeBackend) History(ctx context.Context, id types.ConversationID) ([]types.ExchangeRecord, error) {
	return b.history[id], nil
}

func (b *fakeBackend) Parameters(ctx context.Context) (*types.AppParameters, error) {
	params := b.params
	return &params, nil
}

func (b *fakeBackend) lastPrompt() types.ChatPrompt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prompts[len(b.prompts)-1]
}

// answerFrame builds a decoded frame carrying an answer fragment.
func answerFrame(answer string) *types.StreamFrame {
	return &types.StreamFrame{Raw: answer, Chunk: &types.AnswerChunk{Answer: answer}}
}

// idFrame builds a decoded frame carrying only a conversation id.
func idFrame(id string) *types.StreamFrame {
	return &types.StreamFrame{Raw: id, Chunk: &types.AnswerChunk{ConversationID: id}}
}

// framesOf builds a backend whose every chat stream replays the given frames.
func framesOf(frames ...*types.StreamFrame) *fakeBackend {
	return &fakeBackend{
		newStream: func(ctx context.Context) *scriptedStream {
			return &scriptedStream{ctx: ctx, frames: frames}
		},
	}
}
