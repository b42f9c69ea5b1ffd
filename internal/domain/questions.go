package domain

import "fmt"

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question models a multiple choice question with exactly one correct option.
type Question struct {
	ID                 int      `json:"id" yaml:"id"`
	Prompt             string   `json:"question" yaml:"prompt"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"answer" yaml:"answer"`
}

// IsCorrect reports whether selected is the correct option index.
func (q Question) IsCorrect(selected int) bool {
	return selected == q.CorrectOptionIndex
}

// QuestionSet is the immutable, validated set of questions for the process.
type QuestionSet struct {
	ordered []Question
	byID    map[int]int
}

// NewQuestionSet validates questions and indexes them by ID.
func NewQuestionSet(questions []Question) (QuestionSet, error) {
	if len(questions) == 0 {
		return QuestionSet{}, fmt.Errorf("%w: no questions", ErrInvalidQuestionSet)
	}
	set := QuestionSet{
		ordered: make([]Question, 0, len(questions)),
		byID:    make(map[int]int, len(questions)),
	}
	for _, q := range questions {
		if _, dup := set.byID[q.ID]; dup {
			return QuestionSet{}, fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionSet, q.ID)
		}
		if len(q.Options) != OptionCount {
			return QuestionSet{}, fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidQuestionSet, q.ID, len(q.Options), OptionCount)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return QuestionSet{}, fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuestionSet, q.ID, q.CorrectOptionIndex)
		}
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		set.byID[q.ID] = len(set.ordered)
		set.ordered = append(set.ordered, q)
	}
	return set, nil
}

// Get looks up a question by ID.
func (s QuestionSet) Get(id int) (Question, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Question{}, false
	}
	return s.ordered[i], true
}

// Len returns the number of questions.
func (s QuestionSet) Len() int {
	return len(s.ordered)
}

// All returns a copy of the questions in load order.
func (s QuestionSet) All() []Question {
	out := make([]Question, len(s.ordered))
	for i, q := range s.ordered {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		out[i] = q
	}
	return out
}
