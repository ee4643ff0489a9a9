// internal/session/accumulator.go
package session

import (
	"strings"

	"github.com/user/chatstream/internal/types"
)

// Accumulator folds stream frames into the running answer text and captures
// the conversation id the backend reports. Single pass, no look-ahead.
type Accumulator struct {
	text           strings.Builder
	conversationID string
}

// Feed consumes one frame and returns the newly observed answer fragment,
// or "" when the frame carried none. Frames with a nil chunk or with
// neither field set produce no change; they are not an error. The most
// recent non-empty conversation id wins, the backend being authoritative.
func (a *Accumulator) Feed(frame *types.StreamFrame) string {
	if frame == nil || frame.Chunk == nil {
		return ""
	}
	if frame.Chunk.ConversationID != "" {
		a.conversationID = frame.Chunk.ConversationID
	}
	if frame.Chunk.Answer == "" {
		return ""
	}
	a.text.WriteString(frame.Chunk.Answer)
	return frame.Chunk.Answer
}

// Result returns the accumulated text and the observed conversation id.
// An empty text is a valid, if uninformative, result.
func (a *Accumulator) Result() (string, types.ConversationID) {
	return a.text.String(), types.ConversationID(a.conversationID)
}
