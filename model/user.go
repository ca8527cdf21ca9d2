package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleLearner = "learner"
	RoleCreator = "creator"
	RoleSupport = "support"
	RoleAdmin   = "admin"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'learner'" json:"role"` // learner, creator, support, admin
	TokenVersion int            `gorm:"default:0" json:"-"`                             // Increment to invalidate all user tokens

	// Relationships
	Notifications  []Notification      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tickets        []Ticket            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsSupportStaff reports whether the user handles help tickets
func (u *User) IsSupportStaff() bool {
	return u.Role == RoleSupport || u.Role == RoleAdmin
}
