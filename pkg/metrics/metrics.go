package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PaymentFormsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_forms_built_total",
			Help: "Total number of payment request forms built (count)",
		},
		[]string{"status"},
	)

	PaymentFeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_feedback_total",
			Help: "Total number of payment feedback messages processed (count)",
		},
		[]string{"origin", "status"},
	)

	FeedbackProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_feedback_duration_ms",
			Help:    "Processing duration for payment feedback in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"origin"},
	)

	NotificationAssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_assessments_total",
			Help: "Total number of notification relevance assessments (count)",
		},
		[]string{"outcome"},
	)

	SignatureVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signature_verifications_total",
			Help: "Total number of result signature verifications (count)",
		},
		[]string{"result"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"database", "operation"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"topic"},
	)
)

func RegisterGatewayMetrics() {
	prometheus.MustRegister(PaymentFormsBuiltTotal)
	prometheus.MustRegister(PaymentFeedbackTotal)
	prometheus.MustRegister(FeedbackProcessingDuration)
	prometheus.MustRegister(NotificationAssessmentsTotal)
	prometheus.MustRegister(SignatureVerificationsTotal)
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaWriteDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RecordFormBuilt(status string) {
	PaymentFormsBuiltTotal.WithLabelValues(status).Inc()
}

func RecordPaymentFeedback(origin, status string) {
	PaymentFeedbackTotal.WithLabelValues(origin, status).Inc()
}

func ObserveFeedbackDuration(origin string, duration time.Duration) {
	FeedbackProcessingDuration.WithLabelValues(origin).Observe(float64(duration.Milliseconds()))
}

func RecordNotificationAssessment(outcome string) {
	NotificationAssessmentsTotal.WithLabelValues(outcome).Inc()
}

func RecordSignatureVerification(result string) {
	SignatureVerificationsTotal.WithLabelValues(result).Inc()
}

func IncDatabaseQuery(database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(database, operation).Observe(float64(duration.Milliseconds()))
}

func IncKafkaMessagesWritten(topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(topic).Inc()
}

func ObserveKafkaWriteDuration(topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(topic).Observe(float64(duration.Milliseconds()))
}
