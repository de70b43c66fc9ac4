package contact

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded on contact_submissions_total.
const (
	outcomeAccepted    = "accepted"
	outcomeRateLimited = "rate_limited"
	outcomeInvalid     = "invalid"
	outcomeMalformed   = "malformed"
	outcomeFailed      = "failed"
)

type submissionMetrics struct {
	outcomes *prometheus.CounterVec
}

// newSubmissionMetrics registers the outcome counter on reg. A nil reg leaves the
// counter unregistered so callers never need to check.
func newSubmissionMetrics(reg prometheus.Registerer) *submissionMetrics {
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		},
		[]string{"outcome"},
	)

	if reg != nil {
		if err := reg.Register(outcomes); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
					outcomes = existing
				}
			}
		}
	}

	return &submissionMetrics{outcomes: outcomes}
}

func (m *submissionMetrics) observe(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}
