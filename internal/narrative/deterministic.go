package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/pavelanni/devreport/internal/metrics"
)

// Deterministic writes texts from the fixed catalog in the input's language.
// Output depends only on the input, so the same input always yields the
// same text.
type Deterministic struct {
	metrics *metrics.Metrics
}

func (d *Deterministic) Strategy() string { return StrategyDeterministic }

// Report implements Writer.
func (d *Deterministic) Report(_ context.Context, in Input) string {
	d.count(KindReport)
	return deterministicReport(in)
}

// Suggestions implements Writer.
func (d *Deterministic) Suggestions(_ context.Context, in Input) string {
	d.count(KindSuggestions)
	return deterministicSuggestions(in)
}

// ClassPlan implements Writer.
func (d *Deterministic) ClassPlan(_ context.Context, in Input) string {
	d.count(KindClassPlan)
	return deterministicClassPlan(in)
}

func (d *Deterministic) count(k Kind) {
	if d != nil {
		d.metrics.NarrativeProduced(string(k), StrategyDeterministic)
	}
}

// text accumulates paragraphs separated by blank lines.
type text struct {
	lines []string
}

func (t *text) line(s string) { t.lines = append(t.lines, s) }
func (t *text) blank()        { t.lines = append(t.lines, "") }

func (t *text) para(s string) {
	t.line(s)
	t.blank()
}

func (t *text) String() string {
	return strings.TrimRight(strings.Join(t.lines, "\n"), "\n")
}

func deterministicReport(in Input) string {
	l := localeFor(in.Language)
	var t text
	t.para(l.reportTitle)

	if in.Age != "" {
		t.line(fmt.Sprintf(l.ageKnown, in.Age))
	} else {
		t.line(l.ageUnknown)
	}
	if in.Sex != "" {
		t.line(fmt.Sprintf(l.sex, in.Sex))
	}
	t.para(l.reportIntro)

	if in.Overall == nil {
		t.para(l.insufficient)
	} else {
		t.para(l.overall[BandOf(*in.Overall, in.Bands)])
	}

	if len(in.Scores) > 0 {
		var strong, developing []string
		for _, s := range in.Scores {
			if BandOf(s.Mean, in.Bands) == BandHigh {
				strong = append(strong, s.DimensionName)
			} else {
				developing = append(developing, s.DimensionName)
			}
		}
		if len(strong) > 0 {
			t.para(fmt.Sprintf(l.strengths, l.join(strong)))
		} else {
			t.para(l.noStrengths)
		}
		if len(developing) > 0 {
			t.para(fmt.Sprintf(l.developing, l.join(developing)))
		} else {
			t.para(l.noDeveloping)
		}

		t.para(l.byArea)
		for _, s := range in.Scores {
			t.line(s.DimensionName + ":")
			t.para(l.textFor(s.Theme).report[BandOf(s.Mean, in.Bands)])
		}
	}

	t.line(l.reportClosing)
	return t.String()
}

func deterministicSuggestions(in Input) string {
	l := localeFor(in.Language)
	var t text
	t.para(l.suggestTitle)
	t.para(l.suggestIntro)

	if len(in.Scores) == 0 {
		t.line(l.suggestNone)
		return t.String()
	}

	for _, s := range in.Scores {
		t.line(fmt.Sprintf(l.suggestHeading, s.DimensionName))
		t.para(l.textFor(s.Theme).home)
	}
	return t.String()
}

func deterministicClassPlan(in Input) string {
	l := localeFor(in.Language)
	var t text
	t.para(l.planTitle)
	if in.Context != "" {
		t.para(in.Context)
	}
	t.para(l.planObjective)
	t.para(l.planIntro)

	for _, s := range in.Scores {
		tt := l.textFor(s.Theme)
		t.line(s.DimensionName + ":")
		if s.Mean >= in.Bands.Class {
			t.line(tt.classHigh)
			t.line(tt.classHighExamples)
		} else {
			t.line(tt.classLow)
			t.line(tt.classLowExamples)
		}
		t.blank()
	}

	t.line(l.planClosing)
	return t.String()
}

// join lists names with the locale's conjunction before the last one.
func (l *locale) join(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " " + l.and + " " + names[len(names)-1]
	}
}
