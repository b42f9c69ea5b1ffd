package file

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"quizcast/internal/domain"

	"gopkg.in/yaml.v3"
)

type questionFile struct {
	Questions []domain.Question `yaml:"questions"`
}

// QuestionLoader reads a YAML question file.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML question document. Unknown keys are rejected so typos
// in hand-written files surface at startup.
func Parse(data []byte) ([]domain.Question, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc questionFile
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return doc.Questions, nil
}
