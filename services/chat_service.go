package services

import (
	"context"
	"log"

	"github.com/edumart/api/model"
	"gorm.io/gorm"
)

// ChatService relays live chat inside a ticket's room. Every message is
// persisted before it is broadcast, so delivery order within a room follows
// persistence-completion order and reconnecting clients can replay history.
type ChatService struct {
	db    *gorm.DB
	rooms RoomRegistry
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB, rooms RoomRegistry) *ChatService {
	return &ChatService{db: db, rooms: rooms}
}

// Rooms exposes the registry for the websocket handler
func (s *ChatService) Rooms() RoomRegistry {
	return s.rooms
}

// SendMessageInput holds one inbound chat message
type SendMessageInput struct {
	TicketID   int64
	SenderID   uint
	SenderRole string
	Message    string
}

// SendMessage persists the message and broadcasts the stored record (with its
// database ID and server timestamp) to the ticket's room, sender included.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*model.ChatMessage, error) {
	role := input.SenderRole
	if role != model.ChatRoleAdmin {
		role = model.ChatRoleUser
	}

	message := model.ChatMessage{
		TicketID:   input.TicketID,
		SenderID:   input.SenderID,
		SenderRole: role,
		Message:    input.Message,
	}

	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		log.Printf("chat: failed to persist message for ticket %d: %v", input.TicketID, err)
		return nil, err
	}

	s.rooms.Broadcast(TicketRoom(input.TicketID), &message)
	return &message, nil
}

// History returns a ticket's messages ordered oldest-first
func (s *ChatService) History(ctx context.Context, ticketID int64) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
