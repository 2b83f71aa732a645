package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the KYC subsystem.
type Metrics struct {
	Submissions        prometheus.Counter
	DuplicatesRejected prometheus.Counter
	StatusChanges      *prometheus.CounterVec
	DocumentsRendered  prometheus.Counter
}

// New creates and registers all KYC metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_kyc_submissions_total",
			Help: "Total KYC applications accepted",
		}),
		DuplicatesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_kyc_duplicates_rejected_total",
			Help: "Submissions rejected because the applicant already has a customer ID",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_kyc_status_changes_total",
			Help: "KYC status transitions by target status",
		}, []string{"status"}),
		DocumentsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_kyc_documents_rendered_total",
			Help: "Compliance PDFs rendered for completed applications",
		}),
	}
}

func (m *Metrics) IncrementSubmissions() {
	if m == nil {
		return
	}
	m.Submissions.Inc()
}

func (m *Metrics) IncrementDuplicatesRejected() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementDocumentsRendered() {
	if m == nil {
		return
	}
	m.DocumentsRendered.Inc()
}
