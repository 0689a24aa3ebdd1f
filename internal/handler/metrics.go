package handler

import (
	"fmt"
	"net/http"

	"github.com/roomgrid/roomgrid/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "roomgrid_rooms_created_total %d\n", snap.RoomsCreated)
	writeMetric(w, "roomgrid_room_id_collisions_total %d\n", snap.RoomIDCollisions)
	writeMetric(w, "roomgrid_usernames_claimed_total %d\n", snap.UsernamesClaimed)
	writeMetric(w, "roomgrid_auth_cache_hits_total %d\n", snap.AuthCacheHits)
	writeMetric(w, "roomgrid_auth_cache_misses_total %d\n", snap.AuthCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
