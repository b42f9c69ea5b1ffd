package app

import (
	"context"
	"fmt"

	"quizcast/internal/domain"
)

// QuestionLoader fetches the question set from a backing store.
// It is called once at startup.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// LoadQuestionSet loads and validates the questions served by this process.
func LoadQuestionSet(ctx context.Context, loader QuestionLoader) (domain.QuestionSet, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load questions: %w", err)
	}
	set, err := domain.NewQuestionSet(questions)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return set, nil
}
