package repository

import (
	"context"
	"encoding/json"
	"time"

	"testhub/internal/domain"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, a *domain.Attempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttemptRepository) GetByID(ctx context.Context, id int64) (*domain.Attempt, error) {
	var a domain.Attempt
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Submit records answers, score and submission time, but only if the attempt
// has not been submitted yet. The single conditional UPDATE is what makes
// "exactly one submission" hold under concurrent submits: of two racing
// calls, only one sees an affected row.
func (r *AttemptRepository) Submit(ctx context.Context, id int64, answers map[int64]string, score int, submittedAt time.Time) (bool, error) {
	// Map-style Updates bypass the field serializer, so the answers column
	// is marshalled by hand.
	encoded, err := json.Marshal(answers)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Model(&domain.Attempt{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]any{
			"answers":      string(encoded),
			"score":        score,
			"submitted_at": submittedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AttemptRepository) ListByTest(ctx context.Context, testID int64, offset, limit int) ([]domain.Attempt, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Attempt{}).
		Where("test_id = ?", testID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []domain.Attempt
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("started_at DESC").
		Offset(offset).Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// Leaderboard returns submitted attempts ranked by score, ties broken by the
// earlier submission. Recomputed on every call; scores never change once set.
func (r *AttemptRepository) Leaderboard(ctx context.Context, testID int64, limit int) ([]domain.Attempt, error) {
	var attempts []domain.Attempt
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND submitted_at IS NOT NULL", testID).
		Order("score DESC").
		Order("submitted_at ASC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
