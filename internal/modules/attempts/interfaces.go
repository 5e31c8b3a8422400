package attempts

import (
	"context"
	"time"

	"testhub/internal/domain"
)

type AttemptRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Attempt) error
	GetByID(ctx context.Context, id int64) (*domain.Attempt, error)
	Submit(ctx context.Context, id int64, answers map[int64]string, score int, submittedAt time.Time) (bool, error)
	ListByTest(ctx context.Context, testID int64, offset, limit int) ([]domain.Attempt, int64, error)
	Leaderboard(ctx context.Context, testID int64, limit int) ([]domain.Attempt, error)
}

type TestReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Test, error)
	GetByCode(ctx context.Context, code string) (*domain.Test, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// LeaderboardNotifier receives the fresh ranking after each successful
// submission. Delivery is best-effort; failures never fail a submission.
type LeaderboardNotifier interface {
	NotifyLeaderboard(testID int64, entries []LeaderboardEntry)
}
