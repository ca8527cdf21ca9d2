package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an in-app message for one user, created by ticket lifecycle
// events and other fan-out triggers.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint           `gorm:"not null;index" json:"user_id"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Read     bool           `gorm:"default:false" json:"read"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"` // ticket/course context

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationMetadata holds the common context fields stored in Metadata
type NotificationMetadata struct {
	TicketID int64  `json:"ticket_id,omitempty"`
	CourseID int64  `json:"course_id,omitempty"`
	OrderID  int64  `json:"order_id,omitempty"`
	Status   string `json:"status,omitempty"`
}
