package model

import "time"

// Cart holds a learner's pending course selections. One cart per learner,
// created lazily on first add and deleted on checkout or explicit clear.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	UserID     uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPrice float64    `gorm:"not null;default:0" json:"total_price"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is one course line in a cart. Price is snapshotted from the course
// at add time; the cart total is always derived from the lines, never taken
// from client input.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CartID    uint      `gorm:"not null;index" json:"-"`
	CourseID  int64     `gorm:"not null;index" json:"course_id"` // public course_id
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
}

// RecomputeTotal returns the cart total derived from the current lines
func (c *Cart) RecomputeTotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// ItemCount returns the summed quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
