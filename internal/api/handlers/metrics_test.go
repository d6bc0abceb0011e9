package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/metrics"
)

func TestMetricsHandler_GetMetrics(t *testing.T) {
	m := metrics.NewBuildMetrics()
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildStarted})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildFinished, Data: deckbuilder.BuildReport{
		Suggested: 10,
		Accepted:  8,
		Duration:  time.Second,
	}})

	rec := httptest.NewRecorder()
	NewMetricsHandler(m).GetMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats metrics.BuildStats
	decodeData(t, rec, &stats)
	assert.Equal(t, uint64(1), stats.BuildsFinished)
	assert.Equal(t, uint64(8), stats.CardsAccepted)
	assert.InDelta(t, 80.0, stats.AcceptRate, 0.001)
	assert.Equal(t, 1, stats.BuildLatency.Count)
}
