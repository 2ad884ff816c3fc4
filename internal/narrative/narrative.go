// Package narrative writes the descriptive texts of an assessment: the
// individual report, the home-activity suggestions and the class plan.
//
// Two strategies implement Writer. Deterministic selects fixed paragraphs
// from the dimension means. External asks an LLM and answers with the
// deterministic text whenever the call fails, so callers never see an error.
package narrative

import (
	"context"

	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
)

// Kind names one narrative text.
type Kind string

const (
	KindReport      Kind = "report"
	KindSuggestions Kind = "suggestions"
	KindClassPlan   Kind = "class_plan"
)

// Strategy labels used in metrics and logs.
const (
	StrategyDeterministic = "deterministic"
	StrategyExternal      = "external"
	StrategyFallback      = "fallback"
)

// Input is everything a writer may use. Scores only lists present
// dimensions; Overall is nil when no eligible response exists.
type Input struct {
	Scores  []model.DimensionScore
	Overall *float64
	Bands   model.Bands
	Scale   model.RatingScale

	Age string
	Sex string

	// PlanNotes are free-text notes from the student's individual plan.
	PlanNotes string
	// Context is the pre-built class context sentence of a class plan.
	Context string
	// Language is a locale tag such as "en" or "pt-BR".
	Language string
}

// Writer produces narrative texts. Implementations never fail.
type Writer interface {
	Report(ctx context.Context, in Input) string
	Suggestions(ctx context.Context, in Input) string
	ClassPlan(ctx context.Context, in Input) string
	// Strategy names the writer for logs and UI badges.
	Strategy() string
}

// Option configures a writer built by New.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
}

// WithMetrics counts produced texts and fallbacks on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New returns the external writer when available is true and c is set,
// the deterministic writer otherwise.
func New(c Completer, available bool, opts ...Option) Writer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	det := &Deterministic{metrics: o.metrics}
	if !available || c == nil {
		return det
	}
	return NewExternal(c, det, o.metrics)
}

// Band classifies a mean against the two narrative cut points.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMid:
		return "mid"
	default:
		return "low"
	}
}

// BandOf returns the band of mean. Cut points are inclusive lower bounds.
func BandOf(mean float64, b model.Bands) Band {
	switch {
	case mean >= b.High:
		return BandHigh
	case mean >= b.Mid:
		return BandMid
	default:
		return BandLow
	}
}
