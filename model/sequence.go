package model

import "time"

// Well-known sequence names
const (
	SequenceCourse = "course_id"
	SequenceLesson = "lesson_id"
	SequenceTicket = "ticket_id"
	SequenceOrder  = "order_id"
)

// SequenceCounter backs the public numeric ID allocator. One row per logical
// sequence; Value only ever moves forward, one step per allocation.
type SequenceCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;type:varchar(50)" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SequenceCounter
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
