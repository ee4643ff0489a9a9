// internal/session/directory.go
package session

import (
	"fmt"
	"log/slog"

	"github.com/user/chatstream/internal/types"
)

// DefaultConversationLabel names conversations created locally before the
// backend has had a chance to title them.
const DefaultConversationLabel = "New Conversation"

// Directory is the ordered list of known conversations, including locally
// created ones the backend has not confirmed yet, plus the active
// selection.
type Directory struct {
	entries []*types.Conversation
	active  types.ConversationID
}

func NewDirectory() *Directory {
	return &Directory{}
}

// SetEntries replaces the directory with the backend's conversation list.
// The active selection is kept if it still resolves to an entry.
func (d *Directory) SetEntries(infos []types.ConversationInfo) {
	entries := make([]*types.Conversation, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, &types.Conversation{ID: info.ID, Label: info.Name})
	}
	d.entries = entries
	if d.active != "" && d.find(d.active) == nil {
		d.active = ""
	}
}

// AddTemp appends an uncommitted conversation with a fresh temporary id and
// selects it.
func (d *Directory) AddTemp(label string) *types.Conversation {
	if label == "" {
		label = DefaultConversationLabel
	}
	entry := &types.Conversation{ID: types.NewTempConversationID(), Label: label}
	d.entries = append(d.entries, entry)
	d.active = entry.ID
	return entry
}

// Select makes the given conversation the active one.
func (d *Directory) Select(id types.ConversationID) error {
	if d.find(id) == nil {
		return fmt.Errorf("unknown conversation: %s", id)
	}
	d.active = id
	return nil
}

// Active returns the id of the active conversation, or "" when none is
// selected.
func (d *Directory) Active() types.ConversationID {
	return d.active
}

// ActiveEntry returns the active conversation entry, or nil.
func (d *Directory) ActiveEntry() *types.Conversation {
	return d.find(d.active)
}

// Entries returns a copy of the directory list in order.
func (d *Directory) Entries() []*types.Conversation {
	out := make([]*types.Conversation, len(d.entries))
	copy(out, d.entries)
	return out
}

// Promote rewrites a temporary id to its backend-confirmed permanent id.
// The entry keeps its list position and label; only the id changes, exactly
// once per entry. The active selection follows the rewrite when it pointed
// at the temporary id.
func (d *Directory) Promote(tempID, permID types.ConversationID) error {
	if permID == "" || permID.IsTemp() {
		return fmt.Errorf("invalid permanent id: %s", permID)
	}
	entry := d.find(tempID)
	if entry == nil {
		return fmt.Errorf("unknown conversation: %s", tempID)
	}
	if !entry.ID.IsTemp() {
		slog.Warn("conversation already committed", "id", string(entry.ID), "observed", string(permID))
		return nil
	}
	entry.ID = permID
	if d.active == tempID {
		d.active = permID
	}
	return nil
}

func (d *Directory) find(id types.ConversationID) *types.Conversation {
	if id == "" {
		return nil
	}
	for _, entry := range d.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}
