package attempts

import (
	"testing"

	"testhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Position: 0, Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{ID: 2, Position: 1, Prompt: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		{ID: 3, Position: 2, Prompt: "Largest ocean?", Options: []string{"Atlantic", "Pacific"}, CorrectAnswer: "Pacific"},
	}
}

func TestScore_AllCorrect(t *testing.T) {
	result := Score(threeQuestions(), map[int64]string{1: "4", 2: "Paris", 3: "Pacific"})
	assert.Equal(t, 100, result.Score)
	for _, r := range result.Results {
		assert.True(t, r.Correct)
	}
}

func TestScore_MissingAnswersAreIncorrect(t *testing.T) {
	result := Score(threeQuestions(), map[int64]string{2: "Paris"})
	assert.Equal(t, 33, result.Score)

	require.Len(t, result.Results, 3)
	assert.False(t, result.Results[0].Correct)
	assert.Empty(t, result.Results[0].GivenAnswer)
	assert.True(t, result.Results[1].Correct)
}

func TestScore_RoundsHalfUp(t *testing.T) {
	// 2/3 correct is 66.67 percent and must round to 67, not 66.
	result := Score(threeQuestions(), map[int64]string{1: "4", 2: "Paris"})
	assert.Equal(t, 67, result.Score)
}

func TestScore_CaseSensitive(t *testing.T) {
	result := Score(threeQuestions(), map[int64]string{2: "paris"})
	assert.Equal(t, 0, result.Score)
}

func TestScore_UnknownQuestionIDsIgnored(t *testing.T) {
	result := Score(threeQuestions(), map[int64]string{99: "4", 2: "Paris"})
	assert.Equal(t, 33, result.Score)
	require.Len(t, result.Results, 3)
}

func TestScore_Deterministic(t *testing.T) {
	answers := map[int64]string{1: "4", 3: "Atlantic"}
	first := Score(threeQuestions(), answers)
	second := Score(threeQuestions(), answers)
	assert.Equal(t, first, second)
}

func TestScore_PreservesQuestionOrder(t *testing.T) {
	result := Score(threeQuestions(), nil)
	require.Len(t, result.Results, 3)
	assert.Equal(t, int64(1), result.Results[0].QuestionID)
	assert.Equal(t, int64(2), result.Results[1].QuestionID)
	assert.Equal(t, int64(3), result.Results[2].QuestionID)
}
