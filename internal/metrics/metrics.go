package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sehub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sehub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sehub_deposit_notifications_total",
			Help: "Bank transfer notifications by terminal outcome",
		},
		[]string{"outcome", "reason"},
	)

	DuplicateNotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sehub_deposit_notifications_duplicate_total",
			Help: "Notifications whose external reference was already processed",
		},
	)

	DepositsCreditedAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sehub_deposits_credited_minor_units_total",
			Help: "Sum of credited deposit amounts in minor units",
		},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sehub_reconcile_duration_seconds",
			Help:    "Time to bring one notification to a terminal outcome",
			Buckets: prometheus.DefBuckets,
		},
	)

	WalletsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sehub_wallets_created_total",
			Help: "Wallets created, by creation path",
		},
		[]string{"via"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sehub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sehub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordNotification counts a first-time terminal outcome. reason is empty
// for completed notifications.
func RecordNotification(outcome, reason string) {
	NotificationsTotal.WithLabelValues(outcome, reason).Inc()
}

func RecordDuplicateNotification() {
	DuplicateNotificationsTotal.Inc()
}

func RecordDepositCredited(amount int64) {
	DepositsCreditedAmount.Add(float64(amount))
}

func ObserveReconcileDuration(seconds float64) {
	ReconcileDuration.Observe(seconds)
}

func RecordWalletCreated(via string) {
	WalletsCreatedTotal.WithLabelValues(via).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
