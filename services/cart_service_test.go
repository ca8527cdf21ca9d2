package services

import (
	"context"
	"testing"

	"github.com/edumart/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItemSnapshotsPrice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 49.99)

	cart, err := svc.AddItem(ctx, learner.ID, course.CourseID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 49.99, cart.Items[0].Price)
	assert.Equal(t, 49.99, cart.TotalPrice)

	// A later price change does not touch the snapshotted line
	require.NoError(t, db.Model(course).Update("price", 99.99).Error)

	cart, err = svc.AddItem(ctx, learner.ID, course.CourseID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity, "same course increments quantity instead of adding a line")
	assert.Equal(t, 49.99, cart.Items[0].Price)
	assert.Equal(t, 99.98, cart.TotalPrice)
}

func TestCartAddItemUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)

	_, err := svc.AddItem(context.Background(), learner.ID, 999, 1)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)

	_, err := svc.AddItem(context.Background(), learner.ID, 101, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartRemoveMissingItemIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 20)

	_, err := svc.AddItem(ctx, learner.ID, course.CourseID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, learner.ID, 777)
	require.NoError(t, err, "removing a course that is not in the cart succeeds quietly")
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 20.0, cart.TotalPrice)
}

func TestCartRemoveWithoutCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)

	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)

	_, err := svc.RemoveItem(context.Background(), learner.ID, 101)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartSetItemQuantityRecomputesTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 15)

	_, err := svc.AddItem(ctx, learner.ID, course.CourseID, 1)
	require.NoError(t, err)

	cart, err := svc.SetItemQuantity(ctx, learner.ID, course.CourseID, 4)
	require.NoError(t, err)
	assert.Equal(t, 60.0, cart.TotalPrice)

	_, err = svc.SetItemQuantity(ctx, learner.ID, 888, 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartRecomputeTotalIgnoresClaimedValue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	courseA := createTestCourse(t, db, 101, creator.ID, 10)
	courseB := createTestCourse(t, db, 102, creator.ID, 25)

	_, err := svc.AddItem(ctx, learner.ID, courseA.CourseID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, learner.ID, courseB.CourseID, 1)
	require.NoError(t, err)

	// The client claims a bogus total; the derived value wins
	cart, err := svc.RecomputeTotal(ctx, learner.ID, 1.00)
	require.NoError(t, err)
	assert.Equal(t, 45.0, cart.TotalPrice)

	// Recomputation is idempotent
	again, err := svc.RecomputeTotal(ctx, learner.ID, 45.0)
	require.NoError(t, err)
	assert.Equal(t, cart.TotalPrice, again.TotalPrice)
}

func TestCartAddUpdateRemoveWalk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 1000)

	cart, err := svc.AddItem(ctx, learner.ID, course.CourseID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, cart.TotalPrice)

	cart, err = svc.SetItemQuantity(ctx, learner.ID, course.CourseID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, cart.TotalPrice)

	cart, err = svc.RemoveItem(ctx, learner.ID, course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cart.TotalPrice)
	assert.Empty(t, cart.Items)
}

func TestCartClearAndCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db, nil)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator@example.com", model.RoleCreator)
	learner := createTestUser(t, db, "learner@example.com", model.RoleLearner)
	course := createTestCourse(t, db, 101, creator.ID, 10)

	count, err := svc.Count(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no cart reads as zero items")

	_, err = svc.AddItem(ctx, learner.ID, course.CourseID, 3)
	require.NoError(t, err)

	count, err = svc.Count(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, svc.Clear(ctx, learner.ID))
	require.NoError(t, svc.Clear(ctx, learner.ID), "clearing an absent cart is a no-op")

	count, err = svc.Count(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var lines int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&lines).Error)
	assert.Equal(t, int64(0), lines, "clearing the cart removes its lines")
}
