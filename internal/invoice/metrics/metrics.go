package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the invoice workflow.
type Metrics struct {
	RecordsSaved       prometheus.Counter
	WorkflowsCompleted prometheus.Counter
	StepOutcomes       *prometheus.CounterVec
}

// New creates and registers all invoice metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RecordsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_invoice_records_saved_total",
			Help: "Total invoice records appended to the store",
		}),
		WorkflowsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_workflows_completed_total",
			Help: "Total invoice workflows that finished with no step error",
		}),
		StepOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_workflow_step_outcomes_total",
			Help: "Workflow step outcomes by step and result",
		}, []string{"step", "outcome"}),
	}
}

func (m *Metrics) StepSucceeded(step string) {
	if m == nil {
		return
	}
	m.StepOutcomes.WithLabelValues(step, "success").Inc()
}

func (m *Metrics) StepFailed(step string) {
	if m == nil {
		return
	}
	m.StepOutcomes.WithLabelValues(step, "failure").Inc()
}

func (m *Metrics) IncrementRecordsSaved() {
	if m == nil {
		return
	}
	m.RecordsSaved.Inc()
}

func (m *Metrics) IncrementWorkflowsCompleted() {
	if m == nil {
		return
	}
	m.WorkflowsCompleted.Inc()
}
