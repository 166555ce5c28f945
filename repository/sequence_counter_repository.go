package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
	"gorm.io/gorm"
)

// nextSequenceSQL increments (or creates) a counter row in one statement so
// concurrent callers are serialized by the row lock.
const nextSequenceSQL = `INSERT INTO sequence_counters (name, last_value, created_at, updated_at)
VALUES (?, 1, ?, ?)
ON CONFLICT (name) DO UPDATE
SET last_value = sequence_counters.last_value + 1, updated_at = EXCLUDED.updated_at
RETURNING last_value`

// SequenceCounterRepositoryImpl implements SequenceCounterRepository
type SequenceCounterRepositoryImpl struct {
	*BaseRepository[models.SequenceCounter, struct{}]
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SequenceCounter, struct{}](db),
	}
}

// Next allocates the next value of the named counter
func (r *SequenceCounterRepositoryImpl) Next(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)
	now := utils.UTCNow()

	var next int64
	res := db.Raw(nextSequenceSQL, name, now, now).Scan(&next)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to allocate sequence %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 || next <= 0 {
		return 0, fmt.Errorf("failed to allocate sequence %q: no value returned", name)
	}
	return next, nil
}
