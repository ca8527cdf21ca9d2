package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn collects everything broadcast to it
type recordingConn struct {
	received []interface{}
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	c.received = append(c.received, v)
	return nil
}

func TestRegistryBroadcastReachesWholeRoom(t *testing.T) {
	registry := NewMemoryRoomRegistry()
	sender := &recordingConn{}
	peer := &recordingConn{}
	outsider := &recordingConn{}

	registry.Join(TicketRoom(1), sender)
	registry.Join(TicketRoom(1), peer)
	registry.Join(TicketRoom(2), outsider)

	registry.Broadcast(TicketRoom(1), "hello")

	assert.Len(t, sender.received, 1, "the sender hears its own message")
	assert.Len(t, peer.received, 1)
	assert.Empty(t, outsider.received, "other rooms stay quiet")
}

func TestRegistryLeaveStopsDelivery(t *testing.T) {
	registry := NewMemoryRoomRegistry()
	staying := &recordingConn{}
	leaving := &recordingConn{}

	registry.Join(TicketRoom(7), staying)
	registry.Join(TicketRoom(7), leaving)
	require.Equal(t, 2, registry.Size(TicketRoom(7)))

	registry.Leave(leaving)
	registry.Broadcast(TicketRoom(7), "still here?")

	assert.Len(t, staying.received, 1)
	assert.Empty(t, leaving.received)
	assert.Equal(t, 1, registry.Size(TicketRoom(7)))
}

func TestRegistryRejoinMovesConnection(t *testing.T) {
	registry := NewMemoryRoomRegistry()
	conn := &recordingConn{}

	registry.Join(TicketRoom(1), conn)
	registry.Join(TicketRoom(2), conn)

	registry.Broadcast(TicketRoom(1), "old room")
	assert.Empty(t, conn.received, "joining a new room leaves the old one")

	registry.Broadcast(TicketRoom(2), "new room")
	assert.Len(t, conn.received, 1)

	assert.Equal(t, 0, registry.Size(TicketRoom(1)))
	assert.Equal(t, 1, registry.Size(TicketRoom(2)))
}

func TestRegistryLeaveUnknownConn(t *testing.T) {
	registry := NewMemoryRoomRegistry()
	registry.Leave(&recordingConn{})
	assert.Equal(t, 0, registry.Size(TicketRoom(1)))
}
