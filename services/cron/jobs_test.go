package cron

import (
	"testing"
	"time"

	"github.com/edumart/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCronTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.SettlementLog{},
		&model.Order{},
		&model.Notification{},
		&model.JWTTokenBlacklist{},
	))

	return db
}

// backdate pushes a settlement log's updated_at past the grace period
func backdate(t *testing.T, db *gorm.DB, settlement *model.SettlementLog) {
	t.Helper()
	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, db.Model(settlement).
		UpdateColumn("updated_at", old).Error)
}

func TestReconcileMarksRolledBackSettlement(t *testing.T) {
	db := setupCronTestDB(t)
	manager := NewCronManager(db)

	// A settlement that failed mid-transaction: it has an order ID but no
	// order row, because the whole transaction rolled back.
	settlement := &model.SettlementLog{
		Key:       "rolled-back",
		CourseID:  101,
		LearnerID: 1,
		OrderID:   5,
		Amount:    20,
		Step:      model.SettlementStepOrderCreated,
		Error:     "database connection lost",
	}
	require.NoError(t, db.Create(settlement).Error)
	backdate(t, db, settlement)

	manager.ReconcileSettlements()

	var reloaded model.SettlementLog
	require.NoError(t, db.Where("key = ?", "rolled-back").First(&reloaded).Error)
	assert.Equal(t, model.SettlementStepCompleted, reloaded.Step)
	assert.Contains(t, reloaded.Error, "rolled back")

	// No phantom orders were created by reconciliation
	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)
}

func TestReconcileMarksCommittedSettlement(t *testing.T) {
	db := setupCronTestDB(t)
	manager := NewCronManager(db)

	// The transaction committed but the final log update was lost
	order := &model.Order{
		OrderID:    9,
		CourseID:   101,
		CreatorID:  1,
		LearnerID:  2,
		TotalPrice: 20,
		Status:     model.OrderStatusCompleted,
	}
	require.NoError(t, db.Create(order).Error)

	settlement := &model.SettlementLog{
		Key:       "log-update-lost",
		CourseID:  101,
		LearnerID: 2,
		OrderID:   9,
		Amount:    20,
		Step:      model.SettlementStepCountIncremented,
	}
	require.NoError(t, db.Create(settlement).Error)
	backdate(t, db, settlement)

	manager.ReconcileSettlements()

	var reloaded model.SettlementLog
	require.NoError(t, db.Where("key = ?", "log-update-lost").First(&reloaded).Error)
	assert.Equal(t, model.SettlementStepCompleted, reloaded.Step)
	assert.Contains(t, reloaded.Error, "verified committed")
}

func TestReconcileSkipsRecentSettlements(t *testing.T) {
	db := setupCronTestDB(t)
	manager := NewCronManager(db)

	// Fresh and possibly still in flight; the sweep must leave it alone
	settlement := &model.SettlementLog{
		Key:       "in-flight",
		CourseID:  101,
		LearnerID: 1,
		Amount:    20,
		Step:      model.SettlementStepStarted,
	}
	require.NoError(t, db.Create(settlement).Error)

	manager.ReconcileSettlements()

	var reloaded model.SettlementLog
	require.NoError(t, db.Where("key = ?", "in-flight").First(&reloaded).Error)
	assert.Equal(t, model.SettlementStepStarted, reloaded.Step)
}

func TestCleanupOldNotifications(t *testing.T) {
	db := setupCronTestDB(t)
	manager := NewCronManager(db)

	old := &model.Notification{UserID: 1, Title: "old", Read: true}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -120)).Error)

	unreadOld := &model.Notification{UserID: 1, Title: "unread old"}
	require.NoError(t, db.Create(unreadOld).Error)
	require.NoError(t, db.Model(unreadOld).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -120)).Error)

	recent := &model.Notification{UserID: 1, Title: "recent", Read: true}
	require.NoError(t, db.Create(recent).Error)

	manager.CleanupOldNotifications()

	var titles []string
	require.NoError(t, db.Model(&model.Notification{}).
		Order("id").Pluck("title", &titles).Error)
	assert.Equal(t, []string{"unread old", "recent"}, titles,
		"only read notifications past the cutoff are purged")
}
