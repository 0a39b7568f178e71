package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LeadsCaptured        *prometheus.CounterVec
	ContactsCreated      prometheus.Counter
	ContactsMatched      prometheus.Counter
	EnrichmentFailures   prometheus.Counter
	NotificationFailures prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LeadsCaptured: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homeleads_leads_captured_total",
			Help: "Total lead events captured, by kind",
		}, []string{"kind"}),
		ContactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeleads_contacts_created_total",
			Help: "Total new contact identities created",
		}),
		ContactsMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeleads_contacts_matched_total",
			Help: "Total submissions matched to an existing contact",
		}),
		EnrichmentFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeleads_contact_enrichment_failures_total",
			Help: "Contact upserts that failed after a lead event was saved",
		}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeleads_notification_failures_total",
			Help: "Email notification attempts that failed",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homeleads_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// NewForTest creates unregistered metrics so tests can construct handlers and
// services without collector name collisions.
func NewForTest() *Metrics {
	return &Metrics{
		LeadsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeleads_leads_captured_total",
		}, []string{"kind"}),
		ContactsCreated:      prometheus.NewCounter(prometheus.CounterOpts{Name: "homeleads_contacts_created_total"}),
		ContactsMatched:      prometheus.NewCounter(prometheus.CounterOpts{Name: "homeleads_contacts_matched_total"}),
		EnrichmentFailures:   prometheus.NewCounter(prometheus.CounterOpts{Name: "homeleads_contact_enrichment_failures_total"}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{Name: "homeleads_notification_failures_total"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "homeleads_http_request_duration_seconds",
		}, []string{"route", "status"}),
	}
}
