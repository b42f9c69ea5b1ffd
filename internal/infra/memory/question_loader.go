package memory

import (
	"context"

	"quizcast/internal/domain"
)

// StaticQuestionLoader serves a fixed question list (built-in data and tests).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(l.questions))
	copy(out, l.questions)
	return out, nil
}

// SampleQuestions is the built-in periodic table quiz used when no other
// question source is configured.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Prompt: "Which of these elements belongs to the alkali metals group?", Options: []string{"Hydrogen", "Sodium", "Carbon", "Oxygen"}, CorrectOptionIndex: 1},
		{ID: 2, Prompt: "Which element belongs to the halogen family?", Options: []string{"Fluorine", "Iron", "Neon", "Lithium"}, CorrectOptionIndex: 0},
		{ID: 3, Prompt: "Which element has 1 electron in its valence shell?", Options: []string{"Helium", "Lithium", "Oxygen", "Calcium"}, CorrectOptionIndex: 1},
		{ID: 4, Prompt: "What is the main characteristic of the noble gases?", Options: []string{"They are highly reactive", "They have a complete valence shell", "They always form oxides", "They are metals"}, CorrectOptionIndex: 1},
		{ID: 5, Prompt: "Which group is called the alkaline earth metals?", Options: []string{"Group 1", "Group 2", "Group 17", "Group 18"}, CorrectOptionIndex: 1},
		{ID: 6, Prompt: "What does the period number of an element indicate?", Options: []string{"Number of valence electrons", "Total number of electrons", "Number of electron shells of the atom", "Group of the element"}, CorrectOptionIndex: 2},
		{ID: 7, Prompt: "Which element is a noble gas?", Options: []string{"Oxygen", "Helium", "Sodium", "Iron"}, CorrectOptionIndex: 1},
		{ID: 8, Prompt: "Which element has 2 valence electrons and belongs to group 2?", Options: []string{"Magnesium", "Carbon", "Fluorine", "Sodium"}, CorrectOptionIndex: 0},
		{ID: 9, Prompt: "What does the group number of an element indicate?", Options: []string{"How many valence electrons it has", "How many protons it has", "How many electron shells it has", "Atomic mass"}, CorrectOptionIndex: 0},
		{ID: 10, Prompt: "Which element belongs to period 2 and is a nonmetal?", Options: []string{"Carbon", "Lithium", "Magnesium", "Calcium"}, CorrectOptionIndex: 0},
	}
}
