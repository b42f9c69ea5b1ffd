package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	participants prometheus.Gauge
	connections  prometheus.Gauge
	answers      *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	quizStarts   prometheus.Counter
	rankings     prometheus.Counter
}

// New registers the quizcast collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		participants: f.NewGauge(prometheus.GaugeOpts{
			Name: "quizcast_participants",
			Help: "Number of registered participants.",
		}),
		connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "quizcast_ws_connections",
			Help: "Number of open websocket connections, presenters included.",
		}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quizcast_answers_total",
			Help: "Accepted answers by result.",
		}, []string{"result"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quizcast_rejections_total",
			Help: "Silently dropped client events by reason.",
		}, []string{"reason"}),
		quizStarts: f.NewCounter(prometheus.CounterOpts{
			Name: "quizcast_quiz_starts_total",
			Help: "Number of quiz starts.",
		}),
		rankings: f.NewCounter(prometheus.CounterOpts{
			Name: "quizcast_rankings_total",
			Help: "Number of final rankings broadcast.",
		}),
	}
}

func (m *Metrics) SetParticipants(n int) {
	if m == nil {
		return
	}
	m.participants.Set(float64(n))
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

func (m *Metrics) Answer(correct bool) {
	if m == nil {
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) QuizStarted() {
	if m == nil {
		return
	}
	m.quizStarts.Inc()
}

func (m *Metrics) Ranked() {
	if m == nil {
		return
	}
	m.rankings.Inc()
}
