package metrics

import (
	"sync/atomic"
	"time"

	"github.com/aethermind/aethermind/internal/deckbuilder"
)

// BuildMetrics counts deck pipeline outcomes. It is fed by deck events,
// so it can sit next to any other publisher.
type BuildMetrics struct {
	BuildLatency *Histogram

	BuildsStarted  atomic.Uint64
	BuildsFinished atomic.Uint64
	BuildsFailed   atomic.Uint64
	CardsSuggested atomic.Uint64
	CardsAccepted  atomic.Uint64
	CardsRejected  atomic.Uint64
	CardsNotFound  atomic.Uint64
	LookupErrors   atomic.Uint64
	DecksRenamed   atomic.Uint64
	DecksDeleted   atomic.Uint64

	startTime atomic.Int64
	now       func() time.Time
}

// NewBuildMetrics creates an empty collector.
func NewBuildMetrics() *BuildMetrics {
	m := &BuildMetrics{
		BuildLatency: NewHistogram(defaultHistogramSize),
		now:          time.Now,
	}
	m.startTime.Store(m.now().UnixNano())
	return m
}

// Publish implements deckbuilder.Publisher.
func (m *BuildMetrics) Publish(e deckbuilder.Event) {
	switch e.Type {
	case deckbuilder.EventBuildStarted:
		m.BuildsStarted.Add(1)
	case deckbuilder.EventBuildFailed:
		m.BuildsFailed.Add(1)
	case deckbuilder.EventBuildFinished:
		m.BuildsFinished.Add(1)
		if report, ok := e.Data.(deckbuilder.BuildReport); ok {
			m.recordReport(report)
		}
	case deckbuilder.EventDeckRenamed:
		m.DecksRenamed.Add(1)
	case deckbuilder.EventDeckDeleted:
		m.DecksDeleted.Add(1)
	}
}

func (m *BuildMetrics) recordReport(r deckbuilder.BuildReport) {
	m.BuildLatency.Record(r.Duration)
	m.CardsSuggested.Add(uint64(r.Suggested))
	m.CardsAccepted.Add(uint64(r.Accepted))
	m.CardsNotFound.Add(uint64(r.NotFound))
	m.LookupErrors.Add(uint64(r.LookupErrors))

	var rejected int
	for _, n := range r.Rejected {
		rejected += n
	}
	m.CardsRejected.Add(uint64(rejected))
}

// BuildStats is a point-in-time view of BuildMetrics.
type BuildStats struct {
	BuildLatency LatencyStats `json:"build_latency"`

	BuildsStarted  uint64 `json:"builds_started"`
	BuildsFinished uint64 `json:"builds_finished"`
	BuildsFailed   uint64 `json:"builds_failed"`
	CardsSuggested uint64 `json:"cards_suggested"`
	CardsAccepted  uint64 `json:"cards_accepted"`
	CardsRejected  uint64 `json:"cards_rejected"`
	CardsNotFound  uint64 `json:"cards_not_found"`
	LookupErrors   uint64 `json:"lookup_errors"`
	DecksRenamed   uint64 `json:"decks_renamed"`
	DecksDeleted   uint64 `json:"decks_deleted"`

	AcceptRate  float64 `json:"accept_rate"`  // percentage of suggestions kept
	SuccessRate float64 `json:"success_rate"` // percentage of builds that finished

	Uptime string `json:"uptime"`
}

// Stats returns a snapshot of the current statistics.
func (m *BuildMetrics) Stats() *BuildStats {
	s := &BuildStats{
		BuildLatency:   m.BuildLatency.Stats(),
		BuildsStarted:  m.BuildsStarted.Load(),
		BuildsFinished: m.BuildsFinished.Load(),
		BuildsFailed:   m.BuildsFailed.Load(),
		CardsSuggested: m.CardsSuggested.Load(),
		CardsAccepted:  m.CardsAccepted.Load(),
		CardsRejected:  m.CardsRejected.Load(),
		CardsNotFound:  m.CardsNotFound.Load(),
		LookupErrors:   m.LookupErrors.Load(),
		DecksRenamed:   m.DecksRenamed.Load(),
		DecksDeleted:   m.DecksDeleted.Load(),
	}

	if s.CardsSuggested > 0 {
		s.AcceptRate = float64(s.CardsAccepted) / float64(s.CardsSuggested) * 100
	}
	if done := s.BuildsFinished + s.BuildsFailed; done > 0 {
		s.SuccessRate = float64(s.BuildsFinished) / float64(done) * 100
	}

	started := time.Unix(0, m.startTime.Load())
	s.Uptime = m.now().Sub(started).Round(time.Second).String()
	return s
}

// Reset clears all metrics.
func (m *BuildMetrics) Reset() {
	m.BuildLatency.Reset()
	for _, c := range []*atomic.Uint64{
		&m.BuildsStarted, &m.BuildsFinished, &m.BuildsFailed,
		&m.CardsSuggested, &m.CardsAccepted, &m.CardsRejected,
		&m.CardsNotFound, &m.LookupErrors, &m.DecksRenamed, &m.DecksDeleted,
	} {
		c.Store(0)
	}
	m.startTime.Store(m.now().UnixNano())
}

var _ deckbuilder.Publisher = (*BuildMetrics)(nil)
