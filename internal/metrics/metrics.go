// Package metrics exports the step timings and run outcomes of a print to Prometheus.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

// Run outcomes.
const (
	OutcomeDone     = "done"
	OutcomeCanceled = "canceled"
	OutcomeFailed   = "failed"
)

// Collector is a pipeline option recording every step in Prometheus collectors.
type Collector struct {
	registerer prometheus.Registerer
	duration   *prometheus.HistogramVec
	steps      *prometheus.CounterVec
	runs       *prometheus.CounterVec
}

// NewCollector creates the collectors; they are registered on reg by New.
func NewCollector(reg prometheus.Registerer) *Collector {
	return &Collector{
		registerer: reg,
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slaprint_step_duration_seconds",
				Help:    "Duration of completed processing steps",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"step"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slaprint_steps_total",
				Help: "Total number of completed processing steps",
			},
			[]string{"step"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slaprint_runs_total",
				Help: "Total number of processing runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (c *Collector) New() error {
	for _, col := range []prometheus.Collector{c.duration, c.steps, c.runs} {
		err := c.registerer.Register(col)
		if err != nil {
			return errors.Wrap(err, "unable to register collector")
		}
	}
	return nil
}

func (c *Collector) OnStepStart(*model.StepInfo) error {
	return nil
}

func (c *Collector) OnStepDone(step *model.StepInfo, duration time.Duration) error {
	c.duration.WithLabelValues(step.Name).Observe(duration.Seconds())
	c.steps.WithLabelValues(step.Name).Inc()
	return nil
}

func (c *Collector) Finish(runErr error) error {
	outcome := OutcomeDone
	switch {
	case pipeline.IsCanceled(runErr):
		outcome = OutcomeCanceled
	case runErr != nil:
		outcome = OutcomeFailed
	}
	c.runs.WithLabelValues(outcome).Inc()
	return nil
}

var _ model.PipelineOption = (*Collector)(nil)
