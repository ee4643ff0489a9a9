// internal/dify/stream.go
package dify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/user/chatstream/internal/types"
)

var ErrStream = errors.New("stream error")

// Stream is a lazy pull iterator over the chat endpoint's chunked event
// frames. It is finite and non-restartable: once Next returns io.EOF the
// stream is exhausted. Aborting the request context stops delivery and
// surfaces the context's error.
type Stream struct {
	ctx       context.Context
	body      io.ReadCloser
	scanner   *bufio.Scanner
	closeOnce sync.Once
}

func newStream(ctx context.Context, body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{
		ctx:     ctx,
		body:    body,
		scanner: scanner,
	}
}

// Next returns the next data frame. Transport lines that are not data
// frames (keep-alives, comments, event names) are skipped. A frame whose
// payload fails to decode is still returned, with a nil Chunk; decoding
// failures never terminate the stream. Returns io.EOF when the transport
// ends; there is no explicit end-of-stream payload marker.
func (s *Stream) Next() (*types.StreamFrame, error) {
	for {
		select {
		case <-s.ctx.Done():
			return nil, s.ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				// Context cancellation closes the HTTP body and shows up
				// here as an IO error. Report the cancellation instead.
				if s.ctx.Err() != nil {
					return nil, s.ctx.Err()
				}
				return nil, fmt.Errorf("%w: %v", ErrStream, err)
			}
			return nil, io.EOF
		}

		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		frame := &types.StreamFrame{Raw: data}
		var chunk types.AnswerChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Debug("undecodable stream frame", "error", err, "raw", data)
		} else {
			frame.Chunk = &chunk
		}
		return frame, nil
	}
}

// Close releases the underlying transport. Safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}
