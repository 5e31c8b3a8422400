package attempts

import (
	"time"

	"testhub/internal/domain"
)

// Caller is the identity resolved by the auth middleware, passed explicitly
// into every operation. The zero value is an anonymous caller.
type Caller struct {
	UserID        int64
	Authenticated bool
}

type StartAttemptRequest struct {
	Code string `json:"code" binding:"required"`

	// DisplayName is honored only for anonymous callers; authenticated
	// identities come from the account, never from the request.
	DisplayName string `json:"display_name"`
}

// ParticipantQuestion is a question as shown to a test taker: no answer key.
type ParticipantQuestion struct {
	ID       int64    `json:"id"`
	Position int      `json:"position"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
}

type StartAttemptResponse struct {
	AttemptID        int64                 `json:"attempt_id"`
	TestID           int64                 `json:"test_id"`
	Title            string                `json:"title"`
	TimeLimitSeconds int                   `json:"time_limit_seconds"`
	StartedAt        time.Time             `json:"started_at"`
	Questions        []ParticipantQuestion `json:"questions"`
}

type SubmitAttemptRequest struct {
	AttemptID int64            `json:"attempt_id" binding:"required"`
	Answers   map[int64]string `json:"answers" binding:"required"`
}

// ParticipantAnswer shows correctness without revealing the key.
type ParticipantAnswer struct {
	QuestionID  int64  `json:"question_id"`
	GivenAnswer string `json:"given_answer"`
	Correct     bool   `json:"correct"`
}

// OwnerAnswer is the owner's projection of the same result, answer key
// included.
type OwnerAnswer struct {
	QuestionID    int64  `json:"question_id"`
	GivenAnswer   string `json:"given_answer"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type SubmitAttemptResponse struct {
	AttemptID   int64               `json:"attempt_id"`
	Score       int                 `json:"score"`
	SubmittedAt time.Time           `json:"submitted_at"`
	Answers     []ParticipantAnswer `json:"answers"`
}

type AttemptSummary struct {
	ID          int64      `json:"id"`
	DisplayName string     `json:"display_name"`
	UserID      *int64     `json:"user_id,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Score       *int       `json:"score,omitempty"`
}

// AttemptDetail carries both projections; exactly one of Answers/OwnerAnswers
// is populated depending on who is asking.
type AttemptDetail struct {
	ID           int64               `json:"id"`
	TestID       int64               `json:"test_id"`
	TestTitle    string              `json:"test_title"`
	DisplayName  string              `json:"display_name"`
	StartedAt    time.Time           `json:"started_at"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	Score        *int                `json:"score,omitempty"`
	Answers      []ParticipantAnswer `json:"answers,omitempty"`
	OwnerAnswers []OwnerAnswer       `json:"owner_answers,omitempty"`
}

type LeaderboardEntry struct {
	AttemptID   int64     `json:"attempt_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toParticipantQuestions(qs []domain.Question) []ParticipantQuestion {
	out := make([]ParticipantQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, ParticipantQuestion{
			ID:       q.ID,
			Position: q.Position,
			Prompt:   q.Prompt,
			Options:  q.Options,
		})
	}
	return out
}

func toParticipantAnswers(results []AnswerResult) []ParticipantAnswer {
	out := make([]ParticipantAnswer, 0, len(results))
	for _, r := range results {
		out = append(out, ParticipantAnswer{
			QuestionID:  r.QuestionID,
			GivenAnswer: r.GivenAnswer,
			Correct:     r.Correct,
		})
	}
	return out
}

func toOwnerAnswers(results []AnswerResult) []OwnerAnswer {
	out := make([]OwnerAnswer, 0, len(results))
	for _, r := range results {
		out = append(out, OwnerAnswer{
			QuestionID:    r.QuestionID,
			GivenAnswer:   r.GivenAnswer,
			Correct:       r.Correct,
			CorrectAnswer: r.CorrectAnswer,
		})
	}
	return out
}
