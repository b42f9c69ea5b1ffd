package app

import (
	"context"
	"sync"

	"quizcast/internal/domain"
	"quizcast/internal/logging"
	"quizcast/internal/metrics"

	"github.com/rs/zerolog"
)

// Outbound event names.
const (
	EventServerInfo   = "server-info"
	EventCounts       = "counts"
	EventQuizStart    = "quiz-start"
	EventUpdateScore  = "updateScore"
	EventUpdateScores = "updateScores"
)

// ServerInfo tells the presenter where participants should connect.
type ServerInfo struct {
	Origin string `json:"origin"`
}

// QuizStart carries the full question set to every client.
type QuizStart struct {
	Questions []domain.Question `json:"questions"`
}

// ScoreUpdate is unicast to a participant after a scored answer.
type ScoreUpdate struct {
	Score int `json:"score"`
}

// Broadcaster is the outbound half of the transport. Implementations must not
// block: they are called while the session lock is held.
type Broadcaster interface {
	Broadcast(event string, payload any)
	SendTo(connectionID, event string, payload any)
}

// ResultSink receives counts and rankings for publication outside the process.
type ResultSink interface {
	PublishCounts(ctx context.Context, counts domain.Counts) error
	PublishRanking(ctx context.Context, ranking []domain.RankingEntry) error
}

// Snapshot is a read-only view of the session for HTTP status endpoints.
type Snapshot struct {
	State     string        `json:"state"`
	Counts    domain.Counts `json:"counts"`
	Questions int           `json:"questions"`
	Scoring   string        `json:"scoring"`
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *QuizService) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

func WithResultSink(sink ResultSink) Option {
	return func(s *QuizService) { s.sink = sink }
}

// WithServerInfo makes presenter-join reply with origin. An empty origin
// disables the reply.
func WithServerInfo(origin string) Option {
	return func(s *QuizService) { s.origin = origin }
}

// QuizService is the single owner of the quiz session. Every operation runs
// to completion under one mutex, and outbound events are emitted before the
// mutex is released so clients observe them in mutation order. The result
// sink is written after release and never receives a snapshot older than one
// it already holds.
type QuizService struct {
	mu      sync.Mutex
	session *Session
	out     Broadcaster

	origin  string
	sink    ResultSink
	logger  zerolog.Logger
	metrics *metrics.Metrics

	// seq stamps snapshots under mu; publication drops stamps older than the
	// last one written so the sink ends on the newest state.
	seq         uint64
	publishMu   sync.Mutex
	lastCounts  uint64
	lastRanking uint64
}

type countsUpdate struct {
	seq    uint64
	counts domain.Counts
}

type rankingUpdate struct {
	seq     uint64
	ranking []domain.RankingEntry
}

func NewQuizService(session *Session, out Broadcaster, opts ...Option) *QuizService {
	s := &QuizService{
		session: session,
		out:     out,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PresenterJoin sends connection info to the presenter and refreshes counts.
func (s *QuizService) PresenterJoin(ctx context.Context, connectionID string) {
	s.mu.Lock()
	if s.origin != "" {
		s.out.SendTo(connectionID, EventServerInfo, ServerInfo{Origin: s.origin})
	}
	counts := s.broadcastCountsLocked()
	s.mu.Unlock()

	s.log(ctx).Info().Msg("presenter joined")
	s.publishCounts(ctx, counts)
}

// Join registers a participant.
func (s *QuizService) Join(ctx context.Context, connectionID, displayName string) {
	s.mu.Lock()
	s.session.Join(connectionID, displayName)
	s.metrics.SetParticipants(s.session.Count())
	counts := s.broadcastCountsLocked()
	s.mu.Unlock()

	s.log(ctx).Info().Str("name", displayName).Int("connected", counts.counts.Connected).Msg("participant joined")
	s.publishCounts(ctx, counts)
}

// Leave handles a disconnect. It is a no-op for connections that never joined
// as participants, apart from the counts broadcast.
func (s *QuizService) Leave(ctx context.Context, connectionID string) {
	s.mu.Lock()
	removed, ranking, completed := s.session.Leave(connectionID)
	s.metrics.SetParticipants(s.session.Count())
	counts := s.broadcastCountsLocked()
	var final rankingUpdate
	if completed {
		final = s.broadcastRankingLocked(ranking)
	}
	s.mu.Unlock()

	if removed {
		s.log(ctx).Info().Int("connected", counts.counts.Connected).Msg("participant left")
	}
	s.publishCounts(ctx, counts)
	if completed {
		s.publishRanking(ctx, final)
	}
}

// StartQuiz resets every participant and broadcasts the question set.
func (s *QuizService) StartQuiz(ctx context.Context) {
	s.mu.Lock()
	questions := s.session.Start()
	s.out.Broadcast(EventQuizStart, QuizStart{Questions: questions})
	counts := s.broadcastCountsLocked()
	s.mu.Unlock()

	s.metrics.QuizStarted()
	s.log(ctx).Info().Int("participants", counts.counts.Connected).Int("questions", len(questions)).Msg("quiz started")
	s.publishCounts(ctx, counts)
}

// SubmitAnswer scores an answer. Rejections are logged and counted; the
// returned error is for callers that care, the client never sees it.
func (s *QuizService) SubmitAnswer(ctx context.Context, connectionID string, sub domain.AnswerSubmission) (domain.AnswerResult, error) {
	s.mu.Lock()
	result, err := s.session.SubmitAnswer(connectionID, sub)
	if err == nil && result.Correct && s.session.Policy().ImmediateFeedback() {
		s.out.SendTo(connectionID, EventUpdateScore, ScoreUpdate{Score: result.TotalScore})
	}
	s.mu.Unlock()

	if err != nil {
		s.reject(ctx, "answer", err)
		return domain.AnswerResult{}, err
	}
	s.metrics.Answer(result.Correct)
	s.log(ctx).Debug().
		Int("question_id", result.QuestionID).
		Bool("correct", result.Correct).
		Int("awarded", result.Awarded).
		Int("score", result.TotalScore).
		Msg("answer accepted")
	return result, nil
}

// RecordFinished marks a participant as done and ranks everyone once the
// last registered participant finishes.
func (s *QuizService) RecordFinished(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	ranking, completed, err := s.session.RecordFinished(connectionID)
	var (
		counts countsUpdate
		final  rankingUpdate
	)
	if err == nil {
		counts = s.broadcastCountsLocked()
		if completed {
			final = s.broadcastRankingLocked(ranking)
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.reject(ctx, "finished", err)
		return err
	}
	s.log(ctx).Info().
		Int("finished", counts.counts.Finished).
		Int("connected", counts.counts.Connected).
		Msg("participant finished")
	s.publishCounts(ctx, counts)
	if completed {
		s.publishRanking(ctx, final)
	}
	return nil
}

// Snapshot returns the current state for status endpoints.
func (s *QuizService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.session.State().String(),
		Counts:    s.session.Counts(),
		Questions: s.session.Questions().Len(),
		Scoring:   s.session.Policy().Name(),
	}
}

func (s *QuizService) broadcastCountsLocked() countsUpdate {
	counts := s.session.Counts()
	s.out.Broadcast(EventCounts, counts)
	s.seq++
	return countsUpdate{seq: s.seq, counts: counts}
}

func (s *QuizService) broadcastRankingLocked(ranking []domain.RankingEntry) rankingUpdate {
	s.out.Broadcast(EventUpdateScores, ranking)
	s.metrics.Ranked()
	s.seq++
	return rankingUpdate{seq: s.seq, ranking: ranking}
}

func (s *QuizService) reject(ctx context.Context, event string, err error) {
	reason := domain.RejectionReason(err)
	s.metrics.Rejected(reason)
	s.log(ctx).Debug().Str("event", event).Str("reason", reason).Err(err).Msg("event dropped")
}

func (s *QuizService) publishCounts(ctx context.Context, u countsUpdate) {
	if s.sink == nil {
		return
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if u.seq <= s.lastCounts {
		return
	}
	s.lastCounts = u.seq
	if err := s.sink.PublishCounts(ctx, u.counts); err != nil {
		s.log(ctx).Warn().Err(err).Msg("publish counts failed")
	}
}

func (s *QuizService) publishRanking(ctx context.Context, u rankingUpdate) {
	s.log(ctx).Info().Int("entries", len(u.ranking)).Msg("ranking broadcast")
	if s.sink == nil {
		return
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if u.seq <= s.lastRanking {
		return
	}
	s.lastRanking = u.seq
	if err := s.sink.PublishRanking(ctx, u.ranking); err != nil {
		s.log(ctx).Warn().Err(err).Msg("publish ranking failed")
	}
}

func (s *QuizService) log(ctx context.Context) *zerolog.Logger {
	l := logging.FromContext(ctx, s.logger)
	return &l
}
