package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testhub/internal/database"
	"testhub/internal/domain"
)

func setupAttemptRepo(t *testing.T) (*AttemptRepository, *gorm.DB) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Test{},
		&domain.Question{},
		&domain.Attempt{},
	))

	return NewAttemptRepository(db), db
}

func createAttempt(t *testing.T, db *gorm.DB) *domain.Attempt {
	test := &domain.Test{
		OwnerID:          1,
		AccessCode:       "ABCDEF",
		Title:            "Sample",
		TimeLimitSeconds: 300,
		ExpiresAt:        time.Now().Add(time.Hour),
		Status:           domain.TestOpen,
	}
	require.NoError(t, db.Create(test).Error)

	attempt := &domain.Attempt{
		TestID:      test.ID,
		DisplayName: "Taker",
		StartedAt:   time.Now(),
	}
	require.NoError(t, db.Create(attempt).Error)
	return attempt
}

func TestAttemptRepository_SubmitPersistsAnswers(t *testing.T) {
	repo, db := setupAttemptRepo(t)
	attempt := createAttempt(t, db)
	ctx := context.Background()

	answers := map[int64]string{1: "4", 2: "Paris"}
	ok, err := repo.Submit(ctx, attempt.ID, answers, 50, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := repo.GetByID(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, answers, stored.Answers)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 50, *stored.Score)
	assert.NotNil(t, stored.SubmittedAt)
}

func TestAttemptRepository_SubmitIsExactlyOnce(t *testing.T) {
	repo, db := setupAttemptRepo(t)
	attempt := createAttempt(t, db)
	ctx := context.Background()

	ok, err := repo.Submit(ctx, attempt.ID, map[int64]string{1: "4"}, 100, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Submit(ctx, attempt.ID, map[int64]string{1: "5"}, 0, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "second submit must not see an affected row")

	stored, err := repo.GetByID(ctx, attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 100, *stored.Score, "first submission's score must stand")
	assert.Equal(t, map[int64]string{1: "4"}, stored.Answers)
}

func TestAttemptRepository_SubmitWithEmptyAnswers(t *testing.T) {
	repo, db := setupAttemptRepo(t)
	attempt := createAttempt(t, db)

	ok, err := repo.Submit(context.Background(), attempt.ID, map[int64]string{}, 0, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
}
