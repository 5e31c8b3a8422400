package attempts

import (
	"context"
	"errors"
	"strings"
	"time"

	"testhub/internal/domain"

	"gorm.io/gorm"
)

const (
	maxDisplayNameLen  = 64
	defaultLeaderboard = 10
	maxLeaderboard     = 100
)

// Service owns the attempt lifecycle: started -> submitted, nothing else.
// Expiry is a lazy predicate checked at start time; no timers anywhere.
type Service struct {
	attempts AttemptRepositoryInterface
	tests    TestReader
	users    UserReader
	notifier LeaderboardNotifier
}

func NewService(
	attempts AttemptRepositoryInterface,
	tests TestReader,
	users UserReader,
	notifier LeaderboardNotifier,
) *Service {
	return &Service{
		attempts: attempts,
		tests:    tests,
		users:    users,
		notifier: notifier,
	}
}

func (s *Service) Start(ctx context.Context, caller Caller, req StartAttemptRequest) (*StartAttemptResponse, error) {
	test, err := s.tests.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}

	now := time.Now()
	if !test.IsAvailable(now) {
		// Expired and closed are deliberately indistinguishable: the
		// resource existed but its window is gone.
		return nil, ErrTestGone
	}

	attempt := &domain.Attempt{
		TestID:    test.ID,
		StartedAt: now,
	}

	if caller.Authenticated {
		user, err := s.users.GetByID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		userID := user.ID
		attempt.UserID = &userID
		// Always the account's name; client-supplied text would let an
		// authenticated user impersonate someone else on the leaderboard.
		attempt.DisplayName = user.DisplayName
	} else {
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			return nil, ErrValidation
		}
		// Truncate on rune boundaries; byte slicing could split a
		// multi-byte character and store invalid UTF-8.
		if runes := []rune(name); len(runes) > maxDisplayNameLen {
			name = string(runes[:maxDisplayNameLen])
		}
		attempt.DisplayName = name
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	return &StartAttemptResponse{
		AttemptID:        attempt.ID,
		TestID:           test.ID,
		Title:            test.Title,
		TimeLimitSeconds: test.TimeLimitSeconds,
		StartedAt:        attempt.StartedAt,
		Questions:        toParticipantQuestions(test.Questions),
	}, nil
}

func (s *Service) Submit(ctx context.Context, caller Caller, req SubmitAttemptRequest) (*SubmitAttemptResponse, error) {
	attempt, err := s.attempts.GetByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	// An attempt started by an authenticated user may only be finished by
	// that user. Anonymous attempts are finished by whoever holds the id.
	if attempt.UserID != nil && (!caller.Authenticated || *attempt.UserID != caller.UserID) {
		return nil, ErrForbidden
	}

	if attempt.IsSubmitted() {
		return nil, ErrAlreadySubmitted
	}

	test, err := s.tests.GetByID(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}

	result := Score(test.Questions, req.Answers)
	submittedAt := time.Now()

	ok, err := s.attempts.Submit(ctx, attempt.ID, req.Answers, result.Score, submittedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a submit race; the stored score is the first one and stays.
		return nil, ErrAlreadySubmitted
	}

	s.notifyLeaderboard(ctx, test.ID)

	return &SubmitAttemptResponse{
		AttemptID:   attempt.ID,
		Score:       result.Score,
		SubmittedAt: submittedAt,
		Answers:     toParticipantAnswers(result.Results),
	}, nil
}

func (s *Service) ListForTest(ctx context.Context, ownerID, testID int64, page, pageSize int) ([]AttemptSummary, int64, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTestNotFound
		}
		return nil, 0, err
	}
	if test.OwnerID != ownerID {
		return nil, 0, ErrForbiddenAttemptsList
	}

	offset := (page - 1) * pageSize
	attempts, total, err := s.attempts.ListByTest(ctx, testID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]AttemptSummary, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		out = append(out, AttemptSummary{
			ID:          a.ID,
			DisplayName: a.DisplayName,
			UserID:      a.UserID,
			StartedAt:   a.StartedAt,
			SubmittedAt: a.SubmittedAt,
			Score:       a.Score,
		})
	}
	return out, total, nil
}

// Detail returns an attempt scoped to the caller: the test owner gets the
// answer key, the attempt's participant gets correctness only, everyone else
// is refused. Visibility follows the caller, not the route.
func (s *Service) Detail(ctx context.Context, caller Caller, attemptID int64) (*AttemptDetail, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	test, err := s.tests.GetByID(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}

	isOwner := caller.Authenticated && test.OwnerID == caller.UserID
	isParticipant := attempt.UserID == nil || (caller.Authenticated && *attempt.UserID == caller.UserID)
	if !isOwner && !isParticipant {
		return nil, ErrForbidden
	}

	detail := &AttemptDetail{
		ID:          attempt.ID,
		TestID:      test.ID,
		TestTitle:   test.Title,
		DisplayName: attempt.DisplayName,
		StartedAt:   attempt.StartedAt,
		SubmittedAt: attempt.SubmittedAt,
		Score:       attempt.Score,
	}

	if attempt.IsSubmitted() {
		result := Score(test.Questions, attempt.Answers)
		if isOwner {
			detail.OwnerAnswers = toOwnerAnswers(result.Results)
		} else {
			detail.Answers = toParticipantAnswers(result.Results)
		}
	}

	return detail, nil
}

func (s *Service) Leaderboard(ctx context.Context, testID int64, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}

	attempts, err := s.attempts.Leaderboard(ctx, testID, limit)
	if err != nil {
		return nil, err
	}
	return toLeaderboardEntries(attempts), nil
}

func (s *Service) notifyLeaderboard(ctx context.Context, testID int64) {
	if s.notifier == nil {
		return
	}
	attempts, err := s.attempts.Leaderboard(ctx, testID, defaultLeaderboard)
	if err != nil {
		return
	}
	s.notifier.NotifyLeaderboard(testID, toLeaderboardEntries(attempts))
}

func toLeaderboardEntries(attempts []domain.Attempt) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		if a.SubmittedAt == nil || a.Score == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			AttemptID:   a.ID,
			DisplayName: a.DisplayName,
			Score:       *a.Score,
			SubmittedAt: *a.SubmittedAt,
		})
	}
	return entries
}
