package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "careercompass",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "careercompass",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "careercompass",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Assessment metrics
	assessmentsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "careercompass",
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Total number of completed assessments",
		},
	)

	guidanceGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "careercompass",
			Subsystem: "guidance",
			Name:      "generation_duration_seconds",
			Help:      "Duration of career guidance generation in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	// Chat metrics
	chatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "careercompass",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of chat requests",
		},
		[]string{"mode", "status"},
	)

	// Billing metrics
	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "careercompass",
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Total number of payment webhook events received",
		},
		[]string{"type", "status"},
	)

	subscriptionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "careercompass",
			Subsystem: "billing",
			Name:      "subscriptions_active",
			Help:      "Number of active subscriptions by plan",
		},
		[]string{"plan"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAssessmentCompleted records a completed assessment
func RecordAssessmentCompleted() {
	assessmentsCompleted.Inc()
}

// RecordGuidanceGeneration records the duration of a guidance generation call
func RecordGuidanceGeneration(duration time.Duration) {
	guidanceGenerationDuration.Observe(duration.Seconds())
}

// RecordChatRequest records a chat request by mode ("stream" or "single") and outcome
func RecordChatRequest(mode, status string) {
	chatRequestsTotal.WithLabelValues(mode, status).Inc()
}

// RecordWebhookEvent records a payment webhook event by type and outcome
func RecordWebhookEvent(eventType, status string) {
	webhookEventsTotal.WithLabelValues(eventType, status).Inc()
}

// SetActiveSubscriptions sets the gauge for active subscriptions of a plan
func SetActiveSubscriptions(plan string, count float64) {
	subscriptionsActive.WithLabelValues(plan).Set(count)
}
