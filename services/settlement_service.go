package services

import (
	"context"
	"fmt"
	"log"

	"github.com/edumart/api/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementService applies the writes triggered by a completed purchase:
// the order record, the course purchase counter, and the creator's earnings
// credit. The three writes run inside one database transaction; a
// SettlementLog row keyed by a uuid records how far each attempt got so the
// reconciliation job can check whether a stuck attempt committed and close
// the log either way.
type SettlementService struct {
	db       *gorm.DB
	sequence *SequenceService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(db *gorm.DB, sequence *SequenceService) *SettlementService {
	return &SettlementService{db: db, sequence: sequence}
}

// SettlePurchase records a completed purchase of a course by a learner
func (s *SettlementService) SettlePurchase(ctx context.Context, courseID int64, learnerID uint, totalPrice float64) (*model.Order, error) {
	if totalPrice < 0 {
		return nil, ErrInvalidAmount
	}

	var course model.Course
	if err := s.db.WithContext(ctx).Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	// The settlement log row lives outside the transaction on purpose: when
	// the transaction rolls back, the row keeps the failed step and error for
	// the reconciliation sweep.
	settlement := model.SettlementLog{
		Key:       uuid.New().String(),
		CourseID:  courseID,
		LearnerID: learnerID,
		Amount:    totalPrice,
		Step:      model.SettlementStepStarted,
	}
	if err := s.db.WithContext(ctx).Create(&settlement).Error; err != nil {
		return nil, err
	}

	orderID, err := s.sequence.Next(ctx, model.SequenceOrder)
	if err != nil {
		s.markFailed(ctx, &settlement, err)
		return nil, err
	}

	order := model.Order{
		OrderID:    orderID,
		CourseID:   courseID,
		CreatorID:  course.CreatorID,
		LearnerID:  learnerID,
		TotalPrice: totalPrice,
		Status:     model.OrderStatusCompleted,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		settlement.OrderID = orderID
		settlement.Step = model.SettlementStepOrderCreated

		// Atomic increment, never read-modify-write: two settlements of the
		// same course must both land.
		if err := tx.Model(&model.Course{}).Where("course_id = ?", courseID).
			UpdateColumn("purchase_count", gorm.Expr("purchase_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("increment purchase count: %w", err)
		}
		settlement.Step = model.SettlementStepCountIncremented

		if err := s.creditEarnings(tx, course.CreatorID, totalPrice,
			fmt.Sprintf("Sale of course #%d (order #%d)", courseID, orderID)); err != nil {
			return fmt.Errorf("credit earnings: %w", err)
		}
		settlement.Step = model.SettlementStepCompleted
		return nil
	})
	if err != nil {
		log.Printf("settlement %s failed at step %s (course %d, learner %d, amount %.2f): %v",
			settlement.Key, settlement.Step, courseID, learnerID, totalPrice, err)
		s.markFailed(ctx, &settlement, err)
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(&settlement).Error; err != nil {
		log.Printf("settlement %s completed but log update failed: %v", settlement.Key, err)
	}

	return &order, nil
}

// creditEarnings adds amount to the creator's ledger, creating it on first
// credit, and appends a completed credit transaction.
func (s *SettlementService) creditEarnings(tx *gorm.DB, creatorID uint, amount float64, description string) error {
	var earning model.Earning
	err := tx.Where("creator_id = ?", creatorID).First(&earning).Error
	switch err {
	case nil:
		updates := map[string]interface{}{
			"total_earned":      gorm.Expr("total_earned + ?", amount),
			"available_balance": gorm.Expr("available_balance + ?", amount),
		}
		if err := tx.Model(&earning).Updates(updates).Error; err != nil {
			return err
		}
	case gorm.ErrRecordNotFound:
		earning = model.Earning{
			CreatorID:        creatorID,
			TotalEarned:      amount,
			AvailableBalance: amount,
		}
		if err := tx.Create(&earning).Error; err != nil {
			return err
		}
	default:
		return err
	}

	transaction := model.EarningTransaction{
		EarningID:   earning.ID,
		Type:        model.TransactionTypeCredit,
		Amount:      amount,
		Description: description,
		Status:      model.TransactionStatusCompleted,
	}
	return tx.Create(&transaction).Error
}

// RequestWithdrawal moves amount from the creator's available balance to
// pending withdrawals, atomically with respect to the ledger.
func (s *SettlementService) RequestWithdrawal(ctx context.Context, creatorID uint, amount float64) (*model.Earning, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result model.Earning
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var earning model.Earning
		if err := tx.Where("creator_id = ?", creatorID).First(&earning).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrLedgerNotFound
			}
			return err
		}

		// Conditional decrement, never read-modify-write: a concurrent
		// withdrawal that drained the balance after our read makes this
		// update match zero rows instead of going negative.
		res := tx.Model(&model.Earning{}).
			Where("creator_id = ? AND available_balance >= ?", creatorID, amount).
			Updates(map[string]interface{}{
				"available_balance":   gorm.Expr("available_balance - ?", amount),
				"pending_withdrawals": gorm.Expr("pending_withdrawals + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		transaction := model.EarningTransaction{
			EarningID:   earning.ID,
			Type:        model.TransactionTypeDebit,
			Amount:      amount,
			Description: "Withdrawal request",
			Status:      model.TransactionStatusPending,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		return tx.Where("creator_id = ?", creatorID).First(&result).Error
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetEarnings returns the creator's ledger with its transaction log
func (s *SettlementService) GetEarnings(ctx context.Context, creatorID uint) (*model.Earning, error) {
	var earning model.Earning
	err := s.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("creator_id = ?", creatorID).First(&earning).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	return &earning, nil
}

func (s *SettlementService) markFailed(ctx context.Context, settlement *model.SettlementLog, cause error) {
	settlement.Error = cause.Error()
	if err := s.db.WithContext(ctx).Save(settlement).Error; err != nil {
		log.Printf("failed to record settlement failure %s: %v", settlement.Key, err)
	}
}
