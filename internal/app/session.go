package app

import (
	"math"
	"sort"

	"quizcast/internal/domain"
)

// Session holds the participants and lifecycle of the single quiz run.
// It performs no locking; QuizService serializes every call.
type Session struct {
	questions    domain.QuestionSet
	policy       ScoringPolicy
	state        domain.State
	participants map[string]*domain.Participant
	finished     int
	seq          uint64
}

// NewSession returns an idle session over an immutable question set.
func NewSession(questions domain.QuestionSet, policy ScoringPolicy) *Session {
	return &Session{
		questions:    questions,
		policy:       policy,
		state:        domain.StateIdle,
		participants: make(map[string]*domain.Participant),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() domain.State {
	return s.state
}

// Questions returns the question set served by this session.
func (s *Session) Questions() domain.QuestionSet {
	return s.questions
}

// Policy returns the scoring policy chosen at construction.
func (s *Session) Policy() ScoringPolicy {
	return s.policy
}

// Count returns the number of registered participants.
func (s *Session) Count() int {
	return len(s.participants)
}

// Counts returns the connected and finished totals.
func (s *Session) Counts() domain.Counts {
	return domain.Counts{Connected: len(s.participants), Finished: s.finished}
}

// Participant returns a copy of the participant registered under connectionID.
func (s *Session) Participant(connectionID string) (domain.Participant, bool) {
	p, ok := s.participants[connectionID]
	if !ok {
		return domain.Participant{}, false
	}
	cp := *p
	cp.Answered = make(map[int]bool, len(p.Answered))
	for k, v := range p.Answered {
		cp.Answered[k] = v
	}
	cp.AnswerTimes = make(map[int]float64, len(p.AnswerTimes))
	for k, v := range p.AnswerTimes {
		cp.AnswerTimes[k] = v
	}
	return cp, true
}

// Join registers connectionID, replacing any previous entry for it.
func (s *Session) Join(connectionID, displayName string) {
	if prev, ok := s.participants[connectionID]; ok && prev.Finished {
		s.finished--
	}
	s.seq++
	s.participants[connectionID] = domain.NewParticipant(connectionID, displayName, s.seq)
}

// Leave removes connectionID. While running, the departure may complete the
// quiz for the remaining participants; the ranking is returned when it does.
func (s *Session) Leave(connectionID string) (removed bool, ranking []domain.RankingEntry, completed bool) {
	p, ok := s.participants[connectionID]
	if !ok {
		return false, nil, false
	}
	if p.Finished {
		s.finished--
	}
	delete(s.participants, connectionID)

	ranking, completed = s.completeIfDone()
	return true, ranking, completed
}

// Start resets every participant and moves the session to running.
// It is valid from any state.
func (s *Session) Start() []domain.Question {
	s.finished = 0
	for _, p := range s.participants {
		p.Reset()
	}
	s.state = domain.StateRunning
	return s.questions.All()
}

// SubmitAnswer scores one answer. The first accepted submission for a
// question is final, whether it was correct or not.
func (s *Session) SubmitAnswer(connectionID string, sub domain.AnswerSubmission) (domain.AnswerResult, error) {
	if s.state != domain.StateRunning {
		return domain.AnswerResult{}, domain.ErrNotRunning
	}
	p, ok := s.participants[connectionID]
	if !ok {
		return domain.AnswerResult{}, domain.ErrParticipantNotFound
	}
	if p.Answered[sub.QuestionID] {
		return domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}
	q, ok := s.questions.Get(sub.QuestionID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrQuestionNotFound
	}
	if sub.ElapsedSeconds < 0 || math.IsNaN(sub.ElapsedSeconds) || math.IsInf(sub.ElapsedSeconds, 0) {
		return domain.AnswerResult{}, domain.ErrInvalidElapsed
	}

	correct := q.IsCorrect(sub.SelectedOption)
	awarded := s.policy.Score(correct, sub.ElapsedSeconds)
	p.Score += awarded
	p.Answered[sub.QuestionID] = true
	p.AnswerTimes[sub.QuestionID] = sub.ElapsedSeconds

	return domain.AnswerResult{
		QuestionID: sub.QuestionID,
		Correct:    correct,
		Awarded:    awarded,
		TotalScore: p.Score,
	}, nil
}

// RecordFinished marks connectionID as done. When every registered
// participant has finished, the ranking is computed and returned.
func (s *Session) RecordFinished(connectionID string) (ranking []domain.RankingEntry, completed bool, err error) {
	if s.state != domain.StateRunning {
		return nil, false, domain.ErrNotRunning
	}
	p, ok := s.participants[connectionID]
	if !ok {
		return nil, false, domain.ErrParticipantNotFound
	}
	if p.Finished {
		return nil, false, domain.ErrAlreadyFinished
	}
	p.Finished = true
	s.finished++

	ranking, completed = s.completeIfDone()
	return ranking, completed, nil
}

func (s *Session) completeIfDone() ([]domain.RankingEntry, bool) {
	if s.state != domain.StateRunning {
		return nil, false
	}
	if len(s.participants) == 0 || s.finished != len(s.participants) {
		return nil, false
	}

	ordered := s.byJoinOrder()
	s.policy.Finalize(ordered)
	s.state = domain.StateFinished
	return rank(ordered), true
}

func (s *Session) byJoinOrder() []*domain.Participant {
	out := make([]*domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinSeq < out[j].JoinSeq
	})
	return out
}
