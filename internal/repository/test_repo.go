package repository

import (
	"context"

	"testhub/internal/domain"

	"gorm.io/gorm"
)

type TestRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{db: db}
}

// Create persists a test with its questions in one transaction. Callers must
// watch for IsUniqueViolation and retry with a fresh access code.
func (r *TestRepository) Create(ctx context.Context, t *domain.Test) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TestRepository) GetByID(ctx context.Context, id int64) (*domain.Test, error) {
	var t domain.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) GetByCode(ctx context.Context, code string) (*domain.Test, error) {
	var t domain.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("access_code = ?", code).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]domain.Test, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Test{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tests []domain.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// Close flips a test to closed. Idempotent: closing a closed test is a no-op
// that still reports success. Returns false when the test does not exist or
// is not owned by ownerID.
func (r *TestRepository) Close(ctx context.Context, ownerID, testID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Test{}).
		Where("id = ? AND owner_id = ?", testID, ownerID).
		Update("status", domain.TestClosed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TestRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Test{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
