package narrative

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/devreport/internal/llm/prompts"
	"github.com/pavelanni/devreport/internal/metrics"
)

var errBlank = errors.New("blank completion")

// Completer is the text-completion capability External depends on.
// *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// External writes texts with an LLM. Every failure is logged, counted and
// answered with the deterministic text for the same input.
type External struct {
	llm      Completer
	fallback *Deterministic
	metrics  *metrics.Metrics
}

// NewExternal returns an external writer. A nil fallback gets a fresh
// Deterministic.
func NewExternal(c Completer, fallback *Deterministic, m *metrics.Metrics) *External {
	if fallback == nil {
		fallback = &Deterministic{metrics: m}
	}
	if err := prompts.Load(prompts.FS); err != nil {
		slog.Error("load prompt templates", "error", err)
	}
	return &External{llm: c, fallback: fallback, metrics: m}
}

func (e *External) Strategy() string { return StrategyExternal }

// Report implements Writer.
func (e *External) Report(ctx context.Context, in Input) string {
	return e.write(ctx, KindReport, in, e.fallback.Report)
}

// Suggestions implements Writer.
func (e *External) Suggestions(ctx context.Context, in Input) string {
	return e.write(ctx, KindSuggestions, in, e.fallback.Suggestions)
}

// ClassPlan implements Writer.
func (e *External) ClassPlan(ctx context.Context, in Input) string {
	return e.write(ctx, KindClassPlan, in, e.fallback.ClassPlan)
}

func (e *External) write(ctx context.Context, k Kind, in Input, fallback func(context.Context, Input) string) string {
	pk := prompts.Kind(k)
	system, user, err := prompts.Build(pk, promptData(in))
	if err != nil {
		return e.degrade(ctx, k, in, fallback, err)
	}

	s := prompts.SamplingFor(pk)
	start := time.Now()
	out, err := e.llm.Complete(ctx, system, user, s.Temperature, s.MaxTokens)
	e.metrics.ObserveLLM(string(k), time.Since(start))
	if err == nil && strings.TrimSpace(out) == "" {
		err = errBlank
	}
	if err != nil {
		return e.degrade(ctx, k, in, fallback, err)
	}
	e.metrics.NarrativeProduced(string(k), StrategyExternal)
	return strings.TrimSpace(out)
}

func (e *External) degrade(ctx context.Context, k Kind, in Input, fallback func(context.Context, Input) string, cause error) string {
	slog.Warn("external narrative failed, using deterministic text", "kind", k, "error", cause)
	e.metrics.NarrativeFallback(string(k))
	return fallback(ctx, in)
}

func promptData(in Input) prompts.Data {
	d := prompts.Data{
		Language:  prompts.LanguageName(in.Language),
		Age:       in.Age,
		Sex:       in.Sex,
		ScaleMin:  int(in.Scale.Min()),
		ScaleMax:  int(in.Scale.Max()),
		PlanNotes: in.PlanNotes,
		Context:   in.Context,
	}
	for _, s := range in.Scores {
		d.Dimensions = append(d.Dimensions, prompts.DimensionLine{Name: s.DimensionName, Mean: s.Mean})
	}
	return d
}
