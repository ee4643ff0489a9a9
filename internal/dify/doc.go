// Package dify implements the client for Dify-compatible chat backends:
// the streaming chat endpoint and the one-shot conversation list, history,
// and parameters endpoints.
package dify

import "github.com/user/chatstream/internal/types"

// Compile-time interface compliance checks.
var _ types.Backend = (*Client)(nil)
var _ types.ChatStream = (*Stream)(nil)
