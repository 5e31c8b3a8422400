package tests

import (
	"context"

	"testhub/internal/domain"
)

type TestRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Test) error
	GetByID(ctx context.Context, id int64) (*domain.Test, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]domain.Test, int64, error)
	Close(ctx context.Context, ownerID, testID int64) (bool, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// UserReader is the slice of the user repository this module needs for the
// public profile view.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
