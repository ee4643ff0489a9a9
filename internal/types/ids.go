// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks conversation ids that were generated locally and have
// not yet been confirmed by the backend.
const TempIDPrefix = "temp-"

type ConversationID string
type TurnID string
type AppID string

// NewTempConversationID returns a locally generated conversation id carrying
// the reserved temporary prefix. The backend replaces it with a permanent id
// on the first successful exchange.
func NewTempConversationID() ConversationID {
	return ConversationID(TempIDPrefix + uuid.New().String())
}

// IsTemp reports whether the id is a locally generated temporary id.
func (c ConversationID) IsTemp() bool {
	return strings.HasPrefix(string(c), TempIDPrefix)
}

func NewTurnID() TurnID {
	return TurnID(uuid.New().String())
}

// HistoryTurnID derives a turn id from a persisted exchange record id and a
// role suffix ("query" or "answer"), matching the backend's exchange layout.
func HistoryTurnID(exchangeID, suffix string) TurnID {
	return TurnID(exchangeID + "-" + suffix)
}

func NewAppID() AppID {
	return AppID(uuid.New().String())
}
