// internal/usage/estimate.go

// Package usage estimates the token footprint of a conversation log.
package usage

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/chatstream/internal/types"
)

// perTurnOverhead approximates the wrapping tokens a chat backend spends
// per message (role markers, separators).
const perTurnOverhead = 4

// Estimator counts tokens with a fixed encoding.
type Estimator struct {
	tokenizer *tiktoken.Tiktoken
}

// NewEstimator creates an estimator for the named encoding, falling back
// to cl100k_base when the name is unknown.
func NewEstimator(encoding string) (*Estimator, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Estimator{tokenizer: enc}, nil
}

// Count returns the token count of a single string.
func (e *Estimator) Count(text string) int {
	return len(e.tokenizer.Encode(text, nil, nil))
}

// EstimateLog returns the approximate token footprint of the visible log.
func (e *Estimator) EstimateLog(turns []*types.Turn) int {
	total := 0
	for _, turn := range turns {
		total += e.Count(turn.Content) + perTurnOverhead
	}
	return total
}
