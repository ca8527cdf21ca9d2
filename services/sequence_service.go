package services

import (
	"context"
	"fmt"

	"github.com/edumart/api/model"
	"gorm.io/gorm"
)

// SequenceService hands out the public numeric IDs (course_id, lesson_id,
// ticket_id, order_id). Allocation is a single atomic upsert-increment in the
// database; application code never reads the counter and writes it back, so
// two concurrent allocations for the same name can never receive the same
// value.
type SequenceService struct {
	db *gorm.DB
}

// NewSequenceService creates a new sequence service
func NewSequenceService(db *gorm.DB) *SequenceService {
	return &SequenceService{db: db}
}

// Next allocates the next value of the named sequence, creating the counter
// row on first use. The returned value is the post-increment counter value.
func (s *SequenceService) Next(ctx context.Context, name string) (int64, error) {
	return s.NextIn(ctx, s.db, name)
}

// NextIn allocates on the given handle. Callers that allocate inside a
// transaction use this so a precondition failing later in the transaction
// rolls the allocation back with it.
func (s *SequenceService) NextIn(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	var value int64

	err := db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (name, value, created_at, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (name)
		DO UPDATE SET value = sequence_counters.value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s: %w", name, err)
	}

	return value, nil
}

// Current returns the last allocated value for the named sequence, or 0 if
// nothing has been allocated yet.
func (s *SequenceService) Current(ctx context.Context, name string) (int64, error) {
	var counter model.SequenceCounter
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return counter.Value, nil
}
