package model

import "time"

// Earning transaction types and statuses
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

// Earning is a creator's earnings ledger. One row per creator, created lazily
// on the first credit. Invariant: AvailableBalance never goes negative, and a
// withdrawal moves funds from AvailableBalance to PendingWithdrawals within
// one transaction.
type Earning struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreatorID          uint    `gorm:"uniqueIndex;not null" json:"creator_id"`
	TotalEarned        float64 `gorm:"not null;default:0" json:"total_earned"`
	AvailableBalance   float64 `gorm:"not null;default:0" json:"available_balance"`
	PendingWithdrawals float64 `gorm:"not null;default:0" json:"pending_withdrawals"`

	// Relationships
	Creator      User                 `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions []EarningTransaction `gorm:"foreignKey:EarningID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// EarningTransaction is one entry in a creator's transaction log
type EarningTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	EarningID   uint      `gorm:"not null;index" json:"-"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"` // credit, debit
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(20);default:'completed'" json:"status"` // pending, completed
}
