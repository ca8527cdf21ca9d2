package model

import (
	"time"

	"gorm.io/datatypes"
)

// Course languages
const (
	LanguageSinhala = "Sinhala"
	LanguageTamil   = "Tamil"
	LanguageEnglish = "English"
)

// Course moderation statuses
const (
	CourseStatusPending  = "pending"
	CourseStatusApproved = "approved"
	CourseStatusRejected = "rejected"
)

// Course categories
const (
	CategoryProgramming = "programming"
	CategoryBusiness    = "business"
	CategoryDesign      = "design"
	CategoryMarketing   = "marketing"
	CategoryMusic       = "music"
	CategoryLanguage    = "language"
	CategoryOther       = "other"
)

// CourseLanguages lists the accepted course languages
var CourseLanguages = []string{LanguageSinhala, LanguageTamil, LanguageEnglish}

// CourseCategories lists the accepted course categories
var CourseCategories = []string{
	CategoryProgramming, CategoryBusiness, CategoryDesign,
	CategoryMarketing, CategoryMusic, CategoryLanguage, CategoryOther,
}

// Course represents a published or in-review course listing
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CourseID is the human-facing numeric ID, assigned once from the
	// course_id sequence and never changed afterwards.
	CourseID int64 `gorm:"uniqueIndex;not null" json:"course_id"`

	Title           string  `gorm:"not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	Price           float64 `gorm:"not null;default:0" json:"price"`
	Language        string  `gorm:"type:varchar(20);not null" json:"language"`
	Category        string  `gorm:"type:varchar(30);not null" json:"category"`
	CreatorID       uint    `gorm:"not null;index" json:"creator_id"`
	Status          string  `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, approved, rejected
	RejectionReason string  `gorm:"type:text" json:"rejection_reason,omitempty"`

	PurchaseCount int64   `gorm:"not null;default:0" json:"purchase_count"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int64   `gorm:"default:0" json:"review_count"`

	// Resources is a list of supplementary material URLs
	Resources datatypes.JSON `gorm:"type:jsonb" json:"resources,omitempty"`

	// Relationships
	Creator User     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Lessons []Lesson `gorm:"foreignKey:CourseRef;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// ValidLanguage reports whether lang is one of the accepted course languages
func ValidLanguage(lang string) bool {
	for _, l := range CourseLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// ValidCategory reports whether cat is one of the accepted course categories
func ValidCategory(cat string) bool {
	for _, c := range CourseCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// ValidCourseStatus reports whether s is a known moderation status
func ValidCourseStatus(s string) bool {
	return s == CourseStatusPending || s == CourseStatusApproved || s == CourseStatusRejected
}
