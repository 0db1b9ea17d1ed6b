package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatterbox/models"
)

func TestSendMessageRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)

	_, _, apiErr = env.msgService.SendMessage(alice, &models.SendMessageRequest{ConversationID: conv.ID})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)

	_, _, apiErr = env.msgService.SendMessage(carol, &models.SendMessageRequest{
		ConversationID: conv.ID,
		Body:           "let me in",
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestSendMessageSeedsSeenSetAndBumpsActivity(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)
	require.Nil(t, conv.LastMessageAt)

	msg, sentConv, apiErr := env.msgService.SendMessage(alice, &models.SendMessageRequest{
		ConversationID: conv.ID,
		Body:           "hello",
	})
	require.Nil(t, apiErr)
	assert.Equal(t, conv.ID, sentConv.ID)
	assert.Equal(t, alice.ID, msg.SenderID)

	// The sender has seen their own message from the start.
	require.Len(t, msg.SeenBy, 1)
	assert.Equal(t, alice.Email, msg.SeenBy[0].Email)

	refreshed, apiErr := env.convService.GetConversation(alice, conv.ID)
	require.Nil(t, apiErr)
	assert.NotNil(t, refreshed.LastMessageAt)
}

func TestSendMessageImageOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)

	msg, _, apiErr := env.msgService.SendMessage(alice, &models.SendMessageRequest{
		ConversationID: conv.ID,
		ImageURL:       "https://cdn/photo.jpg",
	})
	require.Nil(t, apiErr)
	assert.Empty(t, msg.Body)
	assert.Equal(t, "https://cdn/photo.jpg", msg.ImageURL)
}

func TestListMessagesRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)
	_, _, apiErr = env.msgService.SendMessage(alice, &models.SendMessageRequest{
		ConversationID: conv.ID,
		Body:           "hello",
	})
	require.Nil(t, apiErr)

	_, apiErr = env.msgService.ListMessages(carol, conv.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	messages, apiErr := env.msgService.ListMessages(bob, conv.ID)
	require.Nil(t, apiErr)
	assert.Len(t, messages, 1)
}

func TestMarkLastMessageSeen(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)

	// Nothing to mark in an empty conversation.
	msg, apiErr := env.msgService.MarkLastMessageSeen(bob, conv.ID)
	require.Nil(t, apiErr)
	assert.Nil(t, msg)

	_, _, apiErr = env.msgService.SendMessage(alice, &models.SendMessageRequest{
		ConversationID: conv.ID,
		Body:           "hello",
	})
	require.Nil(t, apiErr)

	msg, apiErr = env.msgService.MarkLastMessageSeen(bob, conv.ID)
	require.Nil(t, apiErr)
	require.NotNil(t, msg)
	assert.Len(t, msg.SeenBy, 2)

	// Marking twice changes nothing.
	msg, apiErr = env.msgService.MarkLastMessageSeen(bob, conv.ID)
	require.Nil(t, apiErr)
	assert.Len(t, msg.SeenBy, 2)
}

func TestMarkLastMessageSeenRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	conv, apiErr := env.convService.CreateDirect(alice, bob.ID)
	require.Nil(t, apiErr)

	_, apiErr = env.msgService.MarkLastMessageSeen(carol, conv.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
