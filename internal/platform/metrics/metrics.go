package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podsync"

var (
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of requests sent to print providers",
		},
		[]string{"provider", "status"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Print provider request duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	syncedProductsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "products_total",
			Help:      "Total number of reconciled products by bucket",
		},
		[]string{"provider", "bucket"},
	)

	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Catalog sync duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"provider", "success"},
	)

	taskTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "transitions_total",
			Help:      "Total number of sync task status transitions",
		},
		[]string{"entity", "status"},
	)

	pendingTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "pending",
			Help:      "Number of sync tasks waiting for a worker",
		},
	)
)

// ObserveProviderRequest records single provider request. Status 0 means transport failure.
func ObserveProviderRequest(provider string, status int, duration time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	providerRequestsTotal.WithLabelValues(provider, label).Inc()
	providerRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveSync records finished catalog sync.
func ObserveSync(provider models.ProviderType, result *models.SyncResult, duration time.Duration) {
	success := strconv.FormatBool(result != nil)
	syncDuration.WithLabelValues(string(provider), success).Observe(duration.Seconds())

	if result == nil {
		return
	}

	syncedProductsTotal.WithLabelValues(string(provider), "added").Add(float64(len(result.Added)))
	syncedProductsTotal.WithLabelValues(string(provider), "updated").Add(float64(len(result.Updated)))
	syncedProductsTotal.WithLabelValues(string(provider), "removed").Add(float64(len(result.Removed)))
	syncedProductsTotal.WithLabelValues(string(provider), "errors").Add(float64(len(result.Errors)))
	syncedProductsTotal.WithLabelValues(string(provider), "unchanged").Add(float64(result.Metadata.Unchanged))
}

// ObserveTaskTransition records task entering status.
func ObserveTaskTransition(entity models.Entity, status models.TaskStatus) {
	taskTransitionsTotal.WithLabelValues(string(entity), string(status)).Inc()
}

// SetPendingTasks sets number of pending tasks.
func SetPendingTasks(n int) {
	pendingTasks.Set(float64(n))
}

// Handler returns http handler exposing collected metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
