package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
questions:
  - id: 1
    prompt: Which element is a noble gas?
    options: [Oxygen, Helium, Sodium, Iron]
    answer: 1
  - id: 2
    prompt: Which group holds the alkaline earth metals?
    options: ["Group 1", "Group 2", "Group 17", "Group 18"]
    answer: 1
`

func TestLoadQuestionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	questions, err := NewQuestionLoader(path).LoadQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Which element is a noble gas?", questions[0].Prompt)
	assert.Equal(t, []string{"Oxygen", "Helium", "Sodium", "Iron"}, questions[0].Options)
	assert.Equal(t, 1, questions[1].CorrectOptionIndex)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("questions:\n  - id: 1\n    correct: 2\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewQuestionLoader(filepath.Join(t.TempDir(), "nope.yaml")).LoadQuestions(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
