package services

import (
	"context"
	"testing"

	"github.com/edumart/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePersistsThenBroadcasts(t *testing.T) {
	db := setupTestDB(t)
	registry := NewMemoryRoomRegistry()
	svc := NewChatService(db, registry)
	ctx := context.Background()

	sender := &recordingConn{}
	peer := &recordingConn{}
	registry.Join(TicketRoom(5), sender)
	registry.Join(TicketRoom(5), peer)

	sent, err := svc.SendMessage(ctx, SendMessageInput{
		TicketID:   5,
		SenderID:   1,
		SenderRole: model.ChatRoleUser,
		Message:    "hello there",
	})
	require.NoError(t, err)
	require.NotZero(t, sent.ID, "message is persisted before broadcast")

	require.Len(t, sender.received, 1)
	require.Len(t, peer.received, 1)

	got, ok := peer.received[0].(*model.ChatMessage)
	require.True(t, ok)
	assert.Equal(t, sent.ID, got.ID, "the stored record is what gets broadcast")
	assert.Equal(t, "hello there", got.Message)
}

func TestSendMessageNormalizesRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db, NewMemoryRoomRegistry())

	sent, err := svc.SendMessage(context.Background(), SendMessageInput{
		TicketID:   1,
		SenderID:   1,
		SenderRole: "something-else",
		Message:    "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChatRoleUser, sent.SenderRole)
}

func TestHistoryIsOldestFirstAndScopedToTicket(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db, NewMemoryRoomRegistry())
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		_, err := svc.SendMessage(ctx, SendMessageInput{
			TicketID: 9, SenderID: 1, SenderRole: model.ChatRoleUser, Message: msg,
		})
		require.NoError(t, err)
	}
	_, err := svc.SendMessage(ctx, SendMessageInput{
		TicketID: 10, SenderID: 2, SenderRole: model.ChatRoleAdmin, Message: "unrelated",
	})
	require.NoError(t, err)

	history, err := svc.History(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Message)
	assert.Equal(t, "third", history[2].Message)
}
