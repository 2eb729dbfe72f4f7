package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_checkins_total",
			Help: "Total number of member check-ins",
		},
	)

	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_checkouts_total",
			Help: "Total number of member check-outs",
		},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_registrations_total",
			Help: "Total number of package registrations",
		},
		[]string{"payment_method"},
	)

	DiscountApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_discount_applications_total",
			Help: "Total number of discount code applications",
		},
		[]string{"type"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	MembersInGym = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_members_in_gym",
			Help: "Members currently checked in",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn() {
	CheckInsTotal.Inc()
	MembersInGym.Inc()
}

func RecordCheckOut() {
	CheckOutsTotal.Inc()
	MembersInGym.Dec()
}

func RecordRegistration(paymentMethod string) {
	RegistrationsTotal.WithLabelValues(paymentMethod).Inc()
}

func RecordDiscountApplication(discountType string) {
	DiscountApplicationsTotal.WithLabelValues(discountType).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
