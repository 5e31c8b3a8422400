package tests

import (
	"time"

	"testhub/internal/domain"
)

type QuestionInput struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

type CreateTestRequest struct {
	Title            string          `json:"title" validate:"required,max=200"`
	TimeLimitSeconds int             `json:"time_limit_seconds" validate:"required,gt=0"`
	ExpiresAt        time.Time       `json:"expires_at" validate:"required"`
	Questions        []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

// OwnerQuestion includes the answer key; it only ever goes to the owner.
type OwnerQuestion struct {
	ID            int64    `json:"id"`
	Position      int      `json:"position"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type OwnerTestResponse struct {
	ID               int64             `json:"id"`
	AccessCode       string            `json:"access_code"`
	Title            string            `json:"title"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
	ExpiresAt        time.Time         `json:"expires_at"`
	Status           domain.TestStatus `json:"status"`
	Questions        []OwnerQuestion   `json:"questions"`
	CreatedAt        time.Time         `json:"created_at"`
}

type PublicProfileResponse struct {
	DisplayName string `json:"display_name"`
	TestsCount  int64  `json:"tests_count"`
}

func toOwnerTestResponse(t *domain.Test) OwnerTestResponse {
	questions := make([]OwnerQuestion, 0, len(t.Questions))
	for _, q := range t.Questions {
		questions = append(questions, OwnerQuestion{
			ID:            q.ID,
			Position:      q.Position,
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return OwnerTestResponse{
		ID:               t.ID,
		AccessCode:       t.AccessCode,
		Title:            t.Title,
		TimeLimitSeconds: t.TimeLimitSeconds,
		ExpiresAt:        t.ExpiresAt,
		Status:           t.Status,
		Questions:        questions,
		CreatedAt:        t.CreatedAt,
	}
}
