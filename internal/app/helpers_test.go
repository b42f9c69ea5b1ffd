package app_test

import (
	"sync"
	"testing"

	"quizcast/internal/app"
	"quizcast/internal/domain"

	"github.com/stretchr/testify/require"
)

func testQuestions(t *testing.T) domain.QuestionSet {
	t.Helper()
	set, err := domain.NewQuestionSet([]domain.Question{
		{ID: 1, Prompt: "Which element is an alkali metal?", Options: []string{"Hydrogen", "Sodium", "Carbon", "Oxygen"}, CorrectOptionIndex: 1},
		{ID: 2, Prompt: "Which element is a halogen?", Options: []string{"Fluorine", "Iron", "Neon", "Lithium"}, CorrectOptionIndex: 0},
		{ID: 3, Prompt: "Which element is a noble gas?", Options: []string{"Oxygen", "Helium", "Sodium", "Iron"}, CorrectOptionIndex: 1},
	})
	require.NoError(t, err)
	return set
}

func newPolicy(t *testing.T, name string) app.ScoringPolicy {
	t.Helper()
	policy, err := app.NewScoringPolicy(name, app.DefaultBonusPoints, app.DefaultBonusThreshold)
	require.NoError(t, err)
	return policy
}

func newTestSession(t *testing.T, policy string) *app.Session {
	t.Helper()
	return app.NewSession(testQuestions(t), newPolicy(t, policy))
}

func answer(questionID, selected int, elapsed float64) domain.AnswerSubmission {
	return domain.AnswerSubmission{QuestionID: questionID, SelectedOption: selected, ElapsedSeconds: elapsed}
}

type sentEvent struct {
	To      string // empty for broadcasts
	Event   string
	Payload any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (r *recordingBroadcaster) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{Event: event, Payload: payload})
}

func (r *recordingBroadcaster) SendTo(connectionID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: connectionID, Event: event, Payload: payload})
}

func (r *recordingBroadcaster) named(event string) []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentEvent
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingBroadcaster) last() sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recordingBroadcaster) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

