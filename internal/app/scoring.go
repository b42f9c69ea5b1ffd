package app

import (
	"fmt"
	"sort"
	"time"

	"quizcast/internal/domain"
)

const (
	// PolicyFastest awards a one-time bonus to the fastest finisher at ranking.
	PolicyFastest = "fastest"
	// PolicyThreshold awards a bonus on every correct answer under a time limit.
	PolicyThreshold = "threshold"

	DefaultBonusPoints    = 2
	DefaultBonusThreshold = 5 * time.Second
)

// ScoringPolicy decides how answers and completion are scored.
type ScoringPolicy interface {
	Name() string
	// Score returns the points awarded for one accepted answer.
	Score(correct bool, elapsedSeconds float64) int
	// ImmediateFeedback reports whether the updated score is unicast after each correct answer.
	ImmediateFeedback() bool
	// Finalize applies end-of-quiz adjustments. participants are in join order.
	Finalize(participants []*domain.Participant)
}

// NewScoringPolicy builds the policy registered under name.
func NewScoringPolicy(name string, bonus int, threshold time.Duration) (ScoringPolicy, error) {
	if bonus < 0 {
		return nil, fmt.Errorf("bonus points must not be negative: %d", bonus)
	}
	switch name {
	case PolicyFastest, "":
		return FastestBonus{Bonus: bonus}, nil
	case PolicyThreshold:
		if threshold < 0 {
			return nil, fmt.Errorf("bonus threshold must not be negative: %s", threshold)
		}
		return ThresholdBonus{Bonus: bonus, Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// FastestBonus scores one point per correct answer and, at ranking time,
// gives Bonus points to the participant with the smallest total answer time.
type FastestBonus struct {
	Bonus int
}

func (FastestBonus) Name() string { return PolicyFastest }

func (FastestBonus) Score(correct bool, _ float64) int {
	if correct {
		return 1
	}
	return 0
}

func (FastestBonus) ImmediateFeedback() bool { return false }

func (f FastestBonus) Finalize(participants []*domain.Participant) {
	if winner := fastest(participants); winner != nil {
		winner.Score += f.Bonus
	}
}

// fastest returns the participant with the smallest total answer time.
// participants must be in join order; the earliest joiner keeps ties.
func fastest(participants []*domain.Participant) *domain.Participant {
	var winner *domain.Participant
	best := 0.0
	for _, p := range participants {
		if total := p.TotalTime(); winner == nil || total < best {
			winner, best = p, total
		}
	}
	return winner
}

// ThresholdBonus scores one point per correct answer plus Bonus points when
// the answer took at most Threshold.
type ThresholdBonus struct {
	Bonus     int
	Threshold time.Duration
}

func (ThresholdBonus) Name() string { return PolicyThreshold }

func (t ThresholdBonus) Score(correct bool, elapsedSeconds float64) int {
	if !correct {
		return 0
	}
	if elapsedSeconds <= t.Threshold.Seconds() {
		return 1 + t.Bonus
	}
	return 1
}

func (ThresholdBonus) ImmediateFeedback() bool { return true }

func (ThresholdBonus) Finalize([]*domain.Participant) {}

// rank orders participants by score descending, keeping join order on ties.
func rank(participants []*domain.Participant) []domain.RankingEntry {
	sorted := make([]*domain.Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	entries := make([]domain.RankingEntry, 0, len(sorted))
	for _, p := range sorted {
		entries = append(entries, domain.RankingEntry{Name: p.DisplayName, Score: p.Score})
	}
	return entries
}
