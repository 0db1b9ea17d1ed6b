package views

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/techagentng/chatterbox/models"
)

func directConversation(viewer, other models.User) models.Conversation {
	return models.Conversation{
		ID:           uuid.New(),
		IsGroup:      false,
		Participants: []models.User{viewer, other},
	}
}

func TestLastMessage(t *testing.T) {
	assert.Nil(t, LastMessage(nil))
	assert.Nil(t, LastMessage([]models.Message{}))

	messages := []models.Message{
		{ID: uuid.New(), Body: "first"},
		{ID: uuid.New(), Body: "second"},
	}
	last := LastMessage(messages)
	assert.Equal(t, "second", last.Body)
}

func TestPreviewText(t *testing.T) {
	assert.Equal(t, "Started a conversation", PreviewText(nil))
	assert.Equal(t, "Started a conversation", PreviewText(&models.Message{}))
	assert.Equal(t, "hello there", PreviewText(&models.Message{Body: "hello there"}))

	// An image wins even when a caption body is present.
	withImage := &models.Message{Body: "caption", ImageURL: "https://cdn/x.jpg"}
	assert.Equal(t, "Sent an image", PreviewText(withImage))
}

func TestHasSeenByViewer(t *testing.T) {
	alice := models.User{Email: "alice@example.com"}
	bob := models.User{Email: "bob@example.com"}

	msg := &models.Message{SeenBy: []models.User{alice}}
	assert.True(t, HasSeenByViewer(msg, "alice@example.com"))
	assert.False(t, HasSeenByViewer(msg, "bob@example.com"))
	assert.False(t, HasSeenByViewer(nil, "alice@example.com"))
	assert.False(t, HasSeenByViewer(msg, ""))

	msg.SeenBy = append(msg.SeenBy, bob)
	assert.True(t, HasSeenByViewer(msg, "bob@example.com"))
}

func TestOtherParticipant(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	other := models.User{Name: "Bob", Email: "bob@example.com"}
	conv := directConversation(viewer, other)

	got := OtherParticipant(&conv, "alice@example.com")
	assert.Equal(t, "Bob", got.Name)

	solo := models.Conversation{Participants: []models.User{viewer}}
	assert.Nil(t, OtherParticipant(&solo, "alice@example.com"))
}

func TestEntryDirectConversationTitle(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	other := models.User{Name: "Bob", Email: "bob@example.com"}
	conv := directConversation(viewer, other)

	entry := NewEntryCache().Entry(&conv, "alice@example.com")
	assert.Equal(t, "Bob", entry.Title)
	assert.Equal(t, "Started a conversation", entry.Preview)
	assert.False(t, entry.Seen)
}

func TestEntryGroupConversationTitle(t *testing.T) {
	conv := models.Conversation{
		ID:      uuid.New(),
		Name:    "weekend plans",
		IsGroup: true,
	}
	entry := NewEntryCache().Entry(&conv, "alice@example.com")
	assert.Equal(t, "weekend plans", entry.Title)
}

func TestEntryCacheReusesUnchangedInputs(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	other := models.User{Name: "Bob", Email: "bob@example.com"}
	conv := directConversation(viewer, other)
	conv.Messages = []models.Message{
		{ID: uuid.New(), Body: "hey", SeenBy: []models.User{other}},
	}

	cache := NewEntryCache()
	first := cache.Entry(&conv, "alice@example.com")
	assert.Equal(t, "hey", first.Preview)
	assert.False(t, first.Seen)

	// Same last message, same seen-set: the cached entry is reused even if
	// unrelated fields changed.
	conv.Name = "renamed"
	second := cache.Entry(&conv, "alice@example.com")
	assert.Equal(t, first, second)

	// Growing the seen-set changes the key and forces a recompute.
	conv.Messages[0].SeenBy = append(conv.Messages[0].SeenBy, viewer)
	third := cache.Entry(&conv, "alice@example.com")
	assert.True(t, third.Seen)
}

func TestEntryCacheRecomputesOnRename(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	other := models.User{Name: "Bob", Email: "bob@example.com"}
	conv := directConversation(viewer, other)

	cache := NewEntryCache()
	entry := cache.Entry(&conv, "alice@example.com")
	assert.Equal(t, "Bob", entry.Title)

	// The counterpart changes their display name; the entry follows.
	conv.Participants[1].Name = "Robert"
	entry = cache.Entry(&conv, "alice@example.com")
	assert.Equal(t, "Robert", entry.Title)

	group := models.Conversation{ID: uuid.New(), Name: "weekend plans", IsGroup: true}
	entry = cache.Entry(&group, "alice@example.com")
	assert.Equal(t, "weekend plans", entry.Title)

	group.Name = "sunday plans"
	entry = cache.Entry(&group, "alice@example.com")
	assert.Equal(t, "sunday plans", entry.Title)
}

func TestEntryCacheStaysBounded(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	cache := NewEntryCache()

	for i := 0; i < maxEntries+10; i++ {
		other := models.User{
			Name:  fmt.Sprintf("user%d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		}
		conv := directConversation(viewer, other)
		cache.Entry(&conv, viewer.Email)
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.LessOrEqual(t, len(cache.entries), maxEntries)
}

func TestEntriesKeepsConversationOrder(t *testing.T) {
	viewer := models.User{Name: "Alice", Email: "alice@example.com"}
	bob := models.User{Name: "Bob", Email: "bob@example.com"}
	carol := models.User{Name: "Carol", Email: "carol@example.com"}

	convs := []models.Conversation{
		directConversation(viewer, bob),
		directConversation(viewer, carol),
	}

	entries := NewEntryCache().Entries(convs, "alice@example.com")
	assert.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].Title)
	assert.Equal(t, "Carol", entries[1].Title)
}
