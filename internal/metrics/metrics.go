// Package metrics holds the Prometheus collectors exported by framekit.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ScansTotal counts directory scans by root and trigger (initial, event).
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framekit",
			Subsystem: "collect",
			Name:      "scans_total",
			Help:      "Total number of directory scans",
		},
		[]string{"root", "trigger"},
	)

	// Collections is the number of sequences found by the last scan of a root.
	Collections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framekit",
			Subsystem: "collect",
			Name:      "collections",
			Help:      "Sequences found by the most recent scan",
		},
		[]string{"root"},
	)

	// Remainder is the number of ungrouped files found by the last scan of a root.
	Remainder = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framekit",
			Subsystem: "collect",
			Name:      "remainder",
			Help:      "Files left out of any sequence by the most recent scan",
		},
		[]string{"root"},
	)

	// FilesDelivered counts delivered files by outcome (copied, skipped).
	FilesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framekit",
			Subsystem: "deliver",
			Name:      "files_total",
			Help:      "Files handled by sequence delivery",
		},
		[]string{"outcome"},
	)

	// MissingFrames is the number of missing frames in the last verification of a sequence.
	MissingFrames = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framekit",
			Subsystem: "verify",
			Name:      "missing_frames",
			Help:      "Frames missing from the most recent verification",
		},
		[]string{"sequence"},
	)
)

// Handler exposes the default registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
