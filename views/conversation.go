// Package views derives the display state of a conversation list entry from
// data already shaped by the store: the last message, its preview text, and
// whether the viewer has seen it.
package views

import (
	"fmt"
	"sync"

	"github.com/techagentng/chatterbox/models"
)

const startedConversationText = "Started a conversation"

// LastMessage returns the final element of an ordered message sequence, or
// nil when the conversation has no messages yet.
func LastMessage(messages []models.Message) *models.Message {
	if len(messages) == 0 {
		return nil
	}
	return &messages[len(messages)-1]
}

// PreviewText renders the one-line preview for a conversation entry. An
// image wins over body text.
func PreviewText(last *models.Message) string {
	if last != nil && last.ImageURL != "" {
		return "Sent an image"
	}
	if last != nil && last.Body != "" {
		return last.Body
	}
	return startedConversationText
}

// HasSeenByViewer reports whether the viewer's email appears in the last
// message's seen-set. No message or no viewer identity means not seen.
func HasSeenByViewer(last *models.Message, viewerEmail string) bool {
	if last == nil || viewerEmail == "" {
		return false
	}
	for _, u := range last.SeenBy {
		if u.Email == viewerEmail {
			return true
		}
	}
	return false
}

// OtherParticipant picks the counterpart in a direct conversation, the one
// the list entry is labelled with.
func OtherParticipant(conv *models.Conversation, viewerEmail string) *models.User {
	for i := range conv.Participants {
		if conv.Participants[i].Email != viewerEmail {
			return &conv.Participants[i]
		}
	}
	return nil
}

// ConversationEntry is the derived display state for one conversation.
type ConversationEntry struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	Preview        string `json:"preview"`
	Seen           bool   `json:"seen"`
}

// entryKey identifies the inputs an entry was computed from: the last message
// and its seen-set drive the preview and seen flag, the title covers renames.
// The key matching means the previous result can be reused as-is.
type entryKey struct {
	conversationID string
	lastMessageID  string
	seenCount      int
	viewerEmail    string
	title          string
}

// maxEntries caps the memo table; the whole table is flushed when full so
// entries for deleted conversations cannot pile up forever.
const maxEntries = 1024

// EntryCache memoizes ConversationEntry derivations keyed on input identity,
// so a list re-render does not recompute entries whose inputs are unchanged.
type EntryCache struct {
	mu      sync.Mutex
	entries map[entryKey]ConversationEntry
}

func NewEntryCache() *EntryCache {
	return &EntryCache{entries: make(map[entryKey]ConversationEntry)}
}

func titleFor(conv *models.Conversation, viewerEmail string) string {
	if !conv.IsGroup {
		if other := OtherParticipant(conv, viewerEmail); other != nil {
			return other.Name
		}
	}
	return conv.Name
}

func keyFor(conv *models.Conversation, viewerEmail string) entryKey {
	key := entryKey{
		conversationID: conv.ID.String(),
		viewerEmail:    viewerEmail,
		title:          titleFor(conv, viewerEmail),
	}
	if last := LastMessage(conv.Messages); last != nil {
		key.lastMessageID = last.ID.String()
		key.seenCount = len(last.SeenBy)
	}
	return key
}

// Entry derives the display state for a conversation, reusing the cached
// result when the underlying inputs are identical.
func (c *EntryCache) Entry(conv *models.Conversation, viewerEmail string) ConversationEntry {
	key := keyFor(conv, viewerEmail)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		return entry
	}

	if len(c.entries) >= maxEntries {
		c.entries = make(map[entryKey]ConversationEntry)
	}
	entry := computeEntry(conv, viewerEmail)
	c.entries[key] = entry
	return entry
}

func computeEntry(conv *models.Conversation, viewerEmail string) ConversationEntry {
	last := LastMessage(conv.Messages)
	return ConversationEntry{
		ConversationID: conv.ID.String(),
		Title:          titleFor(conv, viewerEmail),
		Preview:        PreviewText(last),
		Seen:           HasSeenByViewer(last, viewerEmail),
	}
}

// Entries derives the list view for all of a viewer's conversations.
func (c *EntryCache) Entries(convs []models.Conversation, viewerEmail string) []ConversationEntry {
	out := make([]ConversationEntry, 0, len(convs))
	for i := range convs {
		out = append(out, c.Entry(&convs[i], viewerEmail))
	}
	return out
}

func (c *EntryCache) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("views.EntryCache(%d entries)", len(c.entries))
}
