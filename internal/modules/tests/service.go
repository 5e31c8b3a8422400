package tests

import (
	"context"
	"errors"
	"strings"
	"time"

	"testhub/internal/domain"
	"testhub/internal/pkg/accesscode"
	"testhub/internal/repository"

	"gorm.io/gorm"
)

// Codes come from a 31-character alphabet, so collisions are rare but real;
// a handful of retries is plenty.
const codeAllocationRetries = 5

// Service owns test definitions. Tests are immutable after creation except
// for closing, which is irreversible.
type Service struct {
	tests TestRepositoryInterface
	users UserReader
}

func NewService(tests TestRepositoryInterface, users UserReader) *Service {
	return &Service{tests: tests, users: users}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateTestRequest) (*domain.Test, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		questions = append(questions, domain.Question{
			Position:      i,
			Prompt:        strings.TrimSpace(q.Prompt),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	for attempt := 0; attempt < codeAllocationRetries; attempt++ {
		code, err := accesscode.New(accesscode.DefaultLength)
		if err != nil {
			return nil, err
		}

		test := &domain.Test{
			OwnerID:          ownerID,
			AccessCode:       code,
			Title:            strings.TrimSpace(req.Title),
			TimeLimitSeconds: req.TimeLimitSeconds,
			ExpiresAt:        req.ExpiresAt,
			Status:           domain.TestOpen,
			Questions:        questions,
		}

		err = s.tests.Create(ctx, test)
		if err == nil {
			return test, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// Code collision: try again with a fresh one.
	}

	return nil, ErrCodeExhausted
}

func (s *Service) GetMine(ctx context.Context, ownerID, testID int64) (*domain.Test, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	if test.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return test, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64, page, pageSize int) ([]domain.Test, int64, error) {
	offset := (page - 1) * pageSize
	return s.tests.ListByOwner(ctx, ownerID, offset, pageSize)
}

// Close sets status=closed. Missing test and foreign test are distinguished
// so handlers can answer NOT_FOUND vs FORBIDDEN.
func (s *Service) Close(ctx context.Context, ownerID, testID int64) error {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}
		return err
	}
	if test.OwnerID != ownerID {
		return ErrForbidden
	}

	ok, err := s.tests.Close(ctx, ownerID, testID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTestNotFound
	}
	return nil
}

func (s *Service) PublicProfile(ctx context.Context, userID int64) (*PublicProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	count, err := s.tests.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfileResponse{
		DisplayName: user.DisplayName,
		TestsCount:  count,
	}, nil
}

func validateCreateRequest(req CreateTestRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrValidation
	}
	if !req.ExpiresAt.After(time.Now()) {
		return ErrValidation
	}
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return ErrValidation
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return ErrValidation
		}
	}
	return nil
}
