package services

import (
	"testing"

	"github.com/edumart/api/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema. A single
// connection keeps every query on the same in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.SequenceCounter{},
		&model.Course{},
		&model.Lesson{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.Earning{},
		&model.EarningTransaction{},
		&model.SettlementLog{},
		&model.Ticket{},
		&model.Notification{},
		&model.ChatMessage{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()

	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, courseID int64, creatorID uint, price float64) *model.Course {
	t.Helper()

	course := &model.Course{
		CourseID:  courseID,
		Title:     "Test Course",
		Price:     price,
		Language:  model.LanguageEnglish,
		Category:  model.CategoryProgramming,
		CreatorID: creatorID,
		Status:    model.CourseStatusApproved,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}
