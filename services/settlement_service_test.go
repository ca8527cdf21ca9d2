package services

import (
	"context"
	"testing"

	"github.com/edumart/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlePurchaseCommitsAllThreeWrites(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 30)

	order, err := svc.SettlePurchase(ctx, course.CourseID, learner.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.OrderID)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, creator.ID, order.CreatorID)

	var reloaded model.Course
	require.NoError(t, db.Where("course_id = ?", course.CourseID).First(&reloaded).Error)
	assert.Equal(t, int64(1), reloaded.PurchaseCount)

	var earning model.Earning
	require.NoError(t, db.Where("creator_id = ?", creator.ID).First(&earning).Error)
	assert.Equal(t, 30.0, earning.TotalEarned)
	assert.Equal(t, 30.0, earning.AvailableBalance)

	var txns []model.EarningTransaction
	require.NoError(t, db.Where("earning_id = ?", earning.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TransactionTypeCredit, txns[0].Type)

	var settlement model.SettlementLog
	require.NoError(t, db.Where("order_id = ?", order.OrderID).First(&settlement).Error)
	assert.Equal(t, model.SettlementStepCompleted, settlement.Step)
	assert.Empty(t, settlement.Error)
}

func TestSettlePurchaseAccumulatesAcrossOrders(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learnerA := createTestUser(t, db, "a@example.com", model.RoleLearner)
	learnerB := createTestUser(t, db, "b@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 25)

	first, err := svc.SettlePurchase(ctx, course.CourseID, learnerA.ID, 25)
	require.NoError(t, err)
	second, err := svc.SettlePurchase(ctx, course.CourseID, learnerB.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID+1, second.OrderID)

	var reloaded model.Course
	require.NoError(t, db.Where("course_id = ?", course.CourseID).First(&reloaded).Error)
	assert.Equal(t, int64(2), reloaded.PurchaseCount, "both settlements must land")

	var earning model.Earning
	require.NoError(t, db.Where("creator_id = ?", creator.ID).First(&earning).Error)
	assert.Equal(t, 50.0, earning.TotalEarned)
}

func TestSettlePurchaseUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettlementService(db, NewSequenceService(db))

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)

	_, err := svc.SettlePurchase(context.Background(), 999, learner.ID, 10)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	var logs int64
	require.NoError(t, db.Model(&model.SettlementLog{}).Count(&logs).Error)
	assert.Equal(t, int64(0), logs, "no settlement log for a rejected request")
}

func TestSettlePurchaseNegativeAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettlementService(db, NewSequenceService(db))

	_, err := svc.SettlePurchase(context.Background(), 101, 1, -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestWithdrawalMovesBalance(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 100)

	_, err := svc.SettlePurchase(ctx, course.CourseID, learner.ID, 100)
	require.NoError(t, err)

	earning, err := svc.RequestWithdrawal(ctx, creator.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 60.0, earning.AvailableBalance)
	assert.Equal(t, 40.0, earning.PendingWithdrawals)
	assert.Equal(t, 100.0, earning.TotalEarned, "lifetime earnings are untouched by withdrawals")

	var txns []model.EarningTransaction
	require.NoError(t, db.Where("earning_id = ? AND type = ?", earning.ID, model.TransactionTypeDebit).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TransactionStatusPending, txns[0].Status)
}

func TestRequestWithdrawalInvariants(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)

	_, err := svc.RequestWithdrawal(ctx, creator.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RequestWithdrawal(ctx, creator.ID, 10)
	assert.ErrorIs(t, err, ErrLedgerNotFound, "no sales yet means no ledger")

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 20)
	_, err = svc.SettlePurchase(ctx, course.CourseID, learner.ID, 20)
	require.NoError(t, err)

	_, err = svc.RequestWithdrawal(ctx, creator.ID, 20.01)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed request must not have moved anything
	var earning model.Earning
	require.NoError(t, db.Where("creator_id = ?", creator.ID).First(&earning).Error)
	assert.Equal(t, 20.0, earning.AvailableBalance)
	assert.Equal(t, 0.0, earning.PendingWithdrawals)
}

func TestRequestWithdrawalGuardsAgainstDoubleSpend(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 100)

	_, err := svc.SettlePurchase(ctx, course.CourseID, learner.ID, 100)
	require.NoError(t, err)

	// Two withdrawals whose sum exceeds the balance: only one may succeed.
	// The balance check rides on the update itself, so a request racing a
	// committed debit sees the already reduced balance.
	_, err = svc.RequestWithdrawal(ctx, creator.ID, 60)
	require.NoError(t, err)

	_, err = svc.RequestWithdrawal(ctx, creator.ID, 60)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var earning model.Earning
	require.NoError(t, db.Where("creator_id = ?", creator.ID).First(&earning).Error)
	assert.Equal(t, 40.0, earning.AvailableBalance)
	assert.Equal(t, 60.0, earning.PendingWithdrawals)

	var debits int64
	require.NoError(t, db.Model(&model.EarningTransaction{}).
		Where("earning_id = ? AND type = ?", earning.ID, model.TransactionTypeDebit).
		Count(&debits).Error)
	assert.Equal(t, int64(1), debits, "the rejected request must not record a debit")
}

func TestGetEarnings(t *testing.T) {
	db := setupTestDB(t)
	sequence := NewSequenceService(db)
	svc := NewSettlementService(db, sequence)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)

	_, err := svc.GetEarnings(ctx, creator.ID)
	assert.ErrorIs(t, err, ErrLedgerNotFound)

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 20)
	_, err = svc.SettlePurchase(ctx, course.CourseID, learner.ID, 20)
	require.NoError(t, err)

	earning, err := svc.GetEarnings(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, earning.Transactions, 1)
}
