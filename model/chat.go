package model

import "time"

// Chat sender roles
const (
	ChatRoleUser  = "user"
	ChatRoleAdmin = "admin"
)

// ChatMessage is one message in a ticket's live chat. Append-only; never
// mutated or deleted once created, ordered by CreatedAt within a ticket.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TicketID   int64  `gorm:"not null;index" json:"ticket_id"` // public ticket_id
	SenderID   uint   `gorm:"not null" json:"sender_id"`
	SenderRole string `gorm:"type:varchar(10);not null" json:"sender_role"` // user, admin
	Message    string `gorm:"type:text;not null" json:"message"`
}
