package memory

import (
	"context"
	"testing"

	"quizcast/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleQuestionsAreValid(t *testing.T) {
	set, err := app.LoadQuestionSet(context.Background(), NewStaticQuestionLoader(SampleQuestions()))
	require.NoError(t, err)
	assert.Equal(t, 10, set.Len())

	q, ok := set.Get(1)
	require.True(t, ok)
	assert.True(t, q.IsCorrect(1))
}

func TestStaticLoaderReturnsCopy(t *testing.T) {
	loader := NewStaticQuestionLoader(SampleQuestions())
	first, err := loader.LoadQuestions(context.Background())
	require.NoError(t, err)
	first[0].ID = 99

	second, err := loader.LoadQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second[0].ID)
}
