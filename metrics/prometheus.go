package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesFetchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_pages_fetched_total",
			Help: "Total number of platform pages fetched, by platform and phase.",
		},
		[]string{"platform", "phase"},
	)
	recordsUpsertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_records_upserted_total",
			Help: "Total number of records written to the content store.",
		},
		[]string{"platform", "entity", "op"},
	)
	recordsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_records_skipped_total",
			Help: "Total number of records dropped before persistence, by reason.",
		},
		[]string{"platform", "entity", "reason"},
	)
	storefrontsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_storefronts_processed_total",
			Help: "Total number of storefront runs, by terminal import status.",
		},
		[]string{"platform", "status"},
	)
	platformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_request_duration_seconds",
			Help:    "Histogram of outbound platform API request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"platform", "status"},
	)
)

func init() {
	prometheus.MustRegister(pagesFetchedTotal)
	prometheus.MustRegister(recordsUpsertedTotal)
	prometheus.MustRegister(recordsSkippedTotal)
	prometheus.MustRegister(storefrontsProcessedTotal)
	prometheus.MustRegister(platformRequestDuration)
}

// RecordPageFetch учитывает одну выгруженную страницу каталога или отзывов.
func RecordPageFetch(platform, phase string) {
	pagesFetchedTotal.WithLabelValues(platform, phase).Inc()
}

// RecordUpsert записывает успешную запись в хранилище. op: "create" или "update".
func RecordUpsert(platform, entity, op string) {
	recordsUpsertedTotal.WithLabelValues(platform, entity, op).Inc()
}

// RecordSkip записывает отброшенную запись. reason: "quota", "orphan",
// "empty_content", "error".
func RecordSkip(platform, entity, reason string) {
	recordsSkippedTotal.WithLabelValues(platform, entity, reason).Inc()
}

func RecordStorefront(platform, status string) {
	storefrontsProcessedTotal.WithLabelValues(platform, status).Inc()
}

// RecordPlatformRequest записывает метрики исходящего запроса к API площадки.
func RecordPlatformRequest(platform string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	platformRequestDuration.WithLabelValues(platform, status).Observe(duration.Seconds())
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
