package metrics

import (
	"context"
	"fmt"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for licence processing.
type Metrics struct {
	UseCaseTotal    *prometheus.CounterVec
	UseCaseDuration *prometheus.HistogramVec

	AmendmentReviewsCreated prometheus.Counter
	AmendmentResponses      *prometheus.CounterVec
	RemindersSent           prometheus.Counter
	LateAmendmentsWithdrawn prometheus.Counter
	FinalActionDateExtended prometheus.Counter
	JobItemFailures         *prometheus.CounterVec
	ProposedConverted       prometheus.Counter
	ConfirmedReverted       prometheus.Counter
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UseCaseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flo_use_case_total",
			Help: "Use case executions by outcome",
		}, []string{"use_case", "outcome"}),
		UseCaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flo_use_case_duration_seconds",
			Help:    "Duration of use case executions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"use_case"}),
		AmendmentReviewsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_amendment_reviews_created_total",
			Help: "Amendment reviews sent to applicants",
		}),
		AmendmentResponses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flo_amendment_responses_total",
			Help: "Applicant responses to amendment reviews",
		}, []string{"agreed"}),
		RemindersSent: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_amendment_reminders_sent_total",
			Help: "Amendment review reminders sent",
		}),
		LateAmendmentsWithdrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_late_amendments_withdrawn_total",
			Help: "Applications withdrawn after an amendment review deadline passed",
		}),
		FinalActionDateExtended: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_final_action_dates_extended_total",
			Help: "Applications whose final action date was extended",
		}),
		JobItemFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flo_job_item_failures_total",
			Help: "Batch job items that failed",
		}, []string{"use_case"}),
		ProposedConverted: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_proposed_felling_converted_total",
			Help: "Applications whose proposed felling was converted to confirmed",
		}),
		ConfirmedReverted: f.NewCounter(prometheus.CounterOpts{
			Name: "flo_confirmed_felling_reverted_total",
			Help: "Confirmed felling records reverted to the proposal",
		}),
	}
}

// Observer adapts Metrics to service.UseCaseObserver.
type Observer struct {
	m *Metrics
}

func NewObserver(m *Metrics) *Observer {
	return &Observer{m: m}
}

func (o *Observer) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	o.m.UseCaseTotal.WithLabelValues(event.Name, outcome(event)).Inc()
	o.m.UseCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if !event.Success {
		return
	}

	switch event.Name {
	case service.UseCaseCreateAmendmentReview:
		o.m.AmendmentReviewsCreated.Inc()
	case service.UseCaseRespondToAmendment:
		o.m.AmendmentResponses.WithLabelValues(fmt.Sprint(event.Fields["agreed"])).Inc()
	case service.UseCaseSendAmendmentReminders:
		o.m.RemindersSent.Add(count(event.Fields, "processed"))
		o.m.JobItemFailures.WithLabelValues(event.Name).Add(count(event.Fields, "failed"))
	case service.UseCaseWithdrawLateAmendments:
		o.m.LateAmendmentsWithdrawn.Add(count(event.Fields, "processed"))
		o.m.JobItemFailures.WithLabelValues(event.Name).Add(count(event.Fields, "failed"))
	case service.UseCaseExtendFinalActionDates:
		o.m.FinalActionDateExtended.Add(count(event.Fields, "extended"))
	case service.UseCaseConvertProposedToConfirmed:
		o.m.ProposedConverted.Inc()
	case service.UseCaseRevertConfirmedFelling:
		o.m.ConfirmedReverted.Inc()
	}
}

func outcome(event service.UseCaseEvent) string {
	if event.Success {
		return "success"
	}
	if code := app.CodeOf(event.Err); code != "" {
		return string(code)
	}
	return "error"
}

func count(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

// WriteTextfile writes everything registered on g in the node-exporter
// textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
