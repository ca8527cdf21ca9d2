package model

import "time"

const (
	// MaxLessonsPerCourse caps how many lessons a single course may hold
	MaxLessonsPerCourse = 5
	// MaxLessonDurationSeconds caps a lesson video at 90 minutes
	MaxLessonDurationSeconds = 5400
)

// Lesson represents one video lesson inside a course
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LessonID is the human-facing numeric ID from the lesson_id sequence
	LessonID int64 `gorm:"uniqueIndex;not null" json:"lesson_id"`

	// CourseRef is the internal FK to courses.id (not the public course_id)
	CourseRef uint `gorm:"not null;index" json:"-"`

	Title     string `gorm:"not null" json:"title"`
	VideoURL  string `gorm:"type:text" json:"video_url"`
	Duration  int    `gorm:"not null" json:"duration"` // seconds, <= 5400
	Order     int    `gorm:"column:sort_order;default:0" json:"order"`
	IsPreview bool   `gorm:"default:false" json:"is_preview"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseRef;constraint:OnDelete:CASCADE" json:"-"`
}
