// internal/session/identity.go
package session

import (
	"log/slog"

	"github.com/user/chatstream/internal/types"
)

// Reconcile resolves which conversation id a completed exchange belongs to.
//
// A temporary (or absent) requested id combined with an observed id yields
// the observed id: the backend has confirmed the conversation. An already
// permanent requested id is kept regardless of the observation; a
// mismatching observation is a protocol anomaly that is logged, not
// rejected. With neither id present the conversation stays identity-less
// and a later exchange may still assign one.
func Reconcile(requested, observed types.ConversationID) types.ConversationID {
	if observed == "" {
		return requested
	}
	if requested == "" || requested.IsTemp() {
		return observed
	}
	if observed != requested {
		slog.Warn("backend reported mismatching conversation id",
			"requested", string(requested),
			"observed", string(observed),
		)
	}
	return requested
}

// Promotes reports whether reconciling requested with observed replaces a
// temporary (or absent) id with a backend-confirmed one.
func Promotes(requested, observed types.ConversationID) bool {
	return observed != "" && (requested == "" || requested.IsTemp())
}
