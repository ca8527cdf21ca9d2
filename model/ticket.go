package model

import "time"

// Ticket statuses and priorities
const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusClosed     = "Closed"

	TicketPriorityLow    = "Low"
	TicketPriorityMedium = "Medium"
	TicketPriorityHigh   = "High"
)

// Ticket is a help request raised by a learner or creator and worked by
// support staff.
type Ticket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// TicketID is the human-facing numeric ID from the ticket_id sequence
	TicketID int64 `gorm:"uniqueIndex;not null" json:"ticket_id"`

	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Category string `gorm:"type:varchar(50);not null" json:"category"`
	Message  string `gorm:"type:text;not null" json:"message"`
	Status   string `gorm:"type:varchar(20);default:'Open'" json:"status"`
	Priority string `gorm:"type:varchar(10);default:'Low'" json:"priority"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// ValidTicketStatus reports whether s is a known ticket status
func ValidTicketStatus(s string) bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusClosed
}

// ValidTicketPriority reports whether p is a known ticket priority
func ValidTicketPriority(p string) bool {
	return p == TicketPriorityLow || p == TicketPriorityMedium || p == TicketPriorityHigh
}
