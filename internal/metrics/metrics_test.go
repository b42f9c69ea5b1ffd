package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetParticipants(3)
	m.Answer(true)
	m.Answer(false)
	m.Answer(true)
	m.Rejected("duplicate_answer")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.participants))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("wrong")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("duplicate_answer")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetParticipants(1)
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.Answer(true)
		m.Rejected("x")
		m.QuizStarted()
		m.Ranked()
	})
}
