package metrics

import (
	"time"

	"scene-mirror/core/proxy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scene_mirror"

var (
	// diagnostics counts recoverable anomalies of proxy passes.
	// Labels: kind (unsupported, read_only, dangling_reference, ...)
	diagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "proxy",
		Name:      "diagnostics_total",
		Help:      "Total attributes skipped during load, save or update",
	}, []string{"kind"})

	// loadDuration measures full mirror loads.
	// Labels: status (success, error)
	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mirror",
		Name:      "load_duration_seconds",
		Help:      "Time to load the proxy tree from the document",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"status"})

	// syncChanges counts reconcile results by status.
	// Labels: status (added, removed, renamed, updated)
	syncChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "changes_total",
		Help:      "Total datablock changes detected by reconcile",
	}, []string{"status"})

	// syncApplied counts datablocks written back to the tree by a sync.
	syncApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconcile",
		Name:      "applied_total",
		Help:      "Total datablocks updated by applied deltas",
	})

	// snapshots counts snapshot save attempts.
	// Labels: result (stored, unchanged, error)
	snapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "saves_total",
		Help:      "Total snapshot saves by result",
	}, []string{"result"})
)

// ObserveDiagnostic records one diagnostic. It has the proxy.DiagnosticHook signature.
func ObserveDiagnostic(d proxy.Diagnostic) {
	diagnostics.WithLabelValues(string(d.Kind)).Inc()
}

// Hook returns ObserveDiagnostic as a loader or writer option.
func Hook() proxy.Option {
	return proxy.WithDiagnosticHook(ObserveDiagnostic)
}

// ObserveLoad records the duration of a load started at start.
func ObserveLoad(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	loadDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

// ObserveChange records one reconcile result status.
func ObserveChange(status string) {
	syncChanges.WithLabelValues(status).Inc()
}

// ObserveApplied records datablocks updated by a sync.
func ObserveApplied(n int) {
	if n > 0 {
		syncApplied.Add(float64(n))
	}
}

// Snapshot results.
const (
	SnapshotStored    = "stored"
	SnapshotUnchanged = "unchanged"
	SnapshotError     = "error"
)

// ObserveSnapshot records a snapshot save result.
func ObserveSnapshot(result string) {
	snapshots.WithLabelValues(result).Inc()
}

// Handler serves the default Prometheus registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
