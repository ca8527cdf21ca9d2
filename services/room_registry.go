package services

import (
	"fmt"
	"sync"
)

// RoomConn is one live connection subscribed to a chat room. The websocket
// handler supplies the concrete implementation.
type RoomConn interface {
	WriteJSON(v interface{}) error
}

// RoomRegistry tracks which connections are subscribed to which ticket room.
// The in-memory implementation below is process-local: with multiple server
// processes each holds its own registry, so a broadcast only reaches
// participants connected to the same process. A shared pub/sub backing can be
// swapped in behind this interface without touching the relay.
type RoomRegistry interface {
	Join(room string, conn RoomConn)
	Leave(conn RoomConn)
	Broadcast(room string, message interface{})
}

// TicketRoom returns the registry key for a ticket's chat room
func TicketRoom(ticketID int64) string {
	return fmt.Sprintf("ticket_%d", ticketID)
}

// MemoryRoomRegistry is the single-process RoomRegistry implementation
type MemoryRoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[RoomConn]struct{}
	conns map[RoomConn]string // reverse index for Leave
}

// NewMemoryRoomRegistry creates an empty in-memory registry
func NewMemoryRoomRegistry() *MemoryRoomRegistry {
	return &MemoryRoomRegistry{
		rooms: make(map[string]map[RoomConn]struct{}),
		conns: make(map[RoomConn]string),
	}
}

// Join adds conn to room, moving it out of its previous room if any
func (r *MemoryRoomRegistry) Join(room string, conn RoomConn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[conn]; ok && prev != room {
		r.removeLocked(prev, conn)
	}

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[RoomConn]struct{})
	}
	r.rooms[room][conn] = struct{}{}
	r.conns[conn] = room
}

// Leave removes conn from whatever room it is in
func (r *MemoryRoomRegistry) Leave(conn RoomConn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.conns[conn]; ok {
		r.removeLocked(room, conn)
	}
	delete(r.conns, conn)
}

// Broadcast sends message to every connection in room, including the sender
func (r *MemoryRoomRegistry) Broadcast(room string, message interface{}) {
	r.mu.RLock()
	members := make([]RoomConn, 0, len(r.rooms[room]))
	for conn := range r.rooms[room] {
		members = append(members, conn)
	}
	r.mu.RUnlock()

	for _, conn := range members {
		// Write failures are the connection's problem; the read loop will
		// notice the dead socket and call Leave.
		_ = conn.WriteJSON(message)
	}
}

// Size returns the number of connections currently in room
func (r *MemoryRoomRegistry) Size(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}

func (r *MemoryRoomRegistry) removeLocked(room string, conn RoomConn) {
	if members, ok := r.rooms[room]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}
