package model

import "time"

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order records one course purchase by a learner. Immutable after creation
// except for status transitions.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// OrderID is the human-facing numeric ID from the order_id sequence
	OrderID int64 `gorm:"uniqueIndex;not null" json:"order_id"`

	CourseID   int64   `gorm:"not null;index" json:"course_id"` // public course_id
	CreatorID  uint    `gorm:"not null;index" json:"creator_id"`
	LearnerID  uint    `gorm:"not null;index" json:"learner_id"`
	TotalPrice float64 `gorm:"not null" json:"total_price"`
	Status     string  `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, completed, cancelled
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusCompleted || s == OrderStatusCancelled
}
