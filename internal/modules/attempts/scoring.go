package attempts

import (
	"math"

	"testhub/internal/domain"
)

// AnswerResult is one graded question in the test's stored order.
type AnswerResult struct {
	QuestionID    int64
	GivenAnswer   string
	Correct       bool
	CorrectAnswer string
}

type ScoreResult struct {
	Score   int // 0-100
	Results []AnswerResult
}

// Score grades answers against the test's questions. Pure: same inputs, same
// result. Questions the participant skipped count as incorrect; answers to
// unknown question ids are ignored. Comparison is exact and case-sensitive.
func Score(questions []domain.Question, answers map[int64]string) ScoreResult {
	results := make([]AnswerResult, 0, len(questions))
	correct := 0

	for _, q := range questions {
		given, answered := answers[q.ID]
		ok := answered && given == q.CorrectAnswer
		if ok {
			correct++
		}
		results = append(results, AnswerResult{
			QuestionID:    q.ID,
			GivenAnswer:   given,
			Correct:       ok,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	score := 0
	if len(questions) > 0 {
		// Round half up so ties are deterministic: 1/3 -> 33, 2/3 -> 67.
		score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}

	return ScoreResult{Score: score, Results: results}
}
