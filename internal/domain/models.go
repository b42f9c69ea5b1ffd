package domain

// State is the lifecycle state of the quiz session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Participant is a quiz-taking connection and its progress in the current run.
type Participant struct {
	ConnectionID string
	DisplayName  string
	Score        int
	Answered     map[int]bool
	AnswerTimes  map[int]float64
	Finished     bool

	// JoinSeq orders participants by join time; lower joined earlier.
	JoinSeq uint64
}

// NewParticipant returns a participant with empty progress.
func NewParticipant(connectionID, displayName string, seq uint64) *Participant {
	p := &Participant{
		ConnectionID: connectionID,
		DisplayName:  displayName,
		JoinSeq:      seq,
	}
	p.Reset()
	return p
}

// Reset clears all per-run progress.
func (p *Participant) Reset() {
	p.Score = 0
	p.Answered = make(map[int]bool)
	p.AnswerTimes = make(map[int]float64)
	p.Finished = false
}

// TotalTime sums the elapsed seconds of every recorded answer.
func (p *Participant) TotalTime() float64 {
	var total float64
	for _, t := range p.AnswerTimes {
		total += t
	}
	return total
}

// Counts is the presenter-facing snapshot of the registry.
type Counts struct {
	Connected int `json:"connected"`
	Finished  int `json:"finished"`
}

// RankingEntry is one row of the final ranking.
type RankingEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AnswerSubmission models the scoring signal from clients.
type AnswerSubmission struct {
	QuestionID     int
	SelectedOption int
	ElapsedSeconds float64
}

// AnswerResult summarizes an accepted submission.
type AnswerResult struct {
	QuestionID int
	Correct    bool
	Awarded    int
	TotalScore int
}
