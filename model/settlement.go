package model

import "time"

// Settlement steps, in the order the settlement service applies them
const (
	SettlementStepStarted          = "started"
	SettlementStepOrderCreated     = "order_created"
	SettlementStepCountIncremented = "count_incremented"
	SettlementStepCompleted        = "completed"
)

// SettlementLog records each purchase settlement attempt so the
// reconciliation job can find stuck attempts, check whether their transaction
// committed, and close the log either way.
type SettlementLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Key is a uuid idempotency key for one settlement attempt
	Key string `gorm:"uniqueIndex;not null;type:varchar(36)" json:"key"`

	CourseID  int64   `gorm:"not null;index" json:"course_id"` // public course_id
	LearnerID uint    `gorm:"not null" json:"learner_id"`
	Amount    float64 `gorm:"not null" json:"amount"`
	OrderID   int64   `json:"order_id,omitempty"` // public order_id once allocated

	Step  string `gorm:"type:varchar(30);not null;index" json:"step"`
	Error string `gorm:"type:text" json:"error,omitempty"`
}

// TableName specifies the table name for SettlementLog
func (SettlementLog) TableName() string {
	return "settlement_logs"
}
