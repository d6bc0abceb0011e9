package handlers

import (
	"net/http"

	"github.com/aethermind/aethermind/internal/api/response"
	"github.com/aethermind/aethermind/internal/metrics"
)

// StatsProvider exposes build statistics.
type StatsProvider interface {
	Stats() *metrics.BuildStats
}

// MetricsHandler serves build statistics.
type MetricsHandler struct {
	stats StatsProvider
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(stats StatsProvider) *MetricsHandler {
	return &MetricsHandler{stats: stats}
}

// GetMetrics returns a snapshot of build statistics.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.stats.Stats())
}
