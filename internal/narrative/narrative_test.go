package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
)

var (
	na    = model.Level(0)
	scale = model.RatingScale{
		Defs:          []model.LevelDef{{Value: 0}, {Value: 1}, {Value: 2}, {Value: 3}},
		NotApplicable: &na,
	}
	bands = model.Bands{High: 2.6, Mid: 1.8, Class: 2.5}
)

func ptr(v float64) *float64 { return &v }

func sampleInput() Input {
	return Input{
		Scores: []model.DimensionScore{
			{DimensionCode: "A", DimensionName: "Social skills", Theme: model.ThemeSocial, Mean: 2.8},
			{DimensionCode: "D", DimensionName: "Motor skills", Theme: model.ThemeMotor, Mean: 1.2},
		},
		Overall: ptr(2.0),
		Bands:   bands,
		Scale:   scale,
		Age:     "5 years",
	}
}

type fakeCompleter struct {
	out    string
	err    error
	calls  int
	system string
	user   string
	temp   float32
	tokens int
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	f.calls++
	f.system, f.user, f.temp, f.tokens = system, user, temperature, maxTokens
	return f.out, f.err
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		mean float64
		want Band
	}{
		{3.0, BandHigh},
		{2.6, BandHigh},
		{2.59, BandMid},
		{1.8, BandMid},
		{1.79, BandLow},
		{1.0, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandOf(tt.mean, bands), "mean %v", tt.mean)
	}
}

func TestDeterministicReport(t *testing.T) {
	d := &Deterministic{}
	out := d.Report(context.Background(), sampleInput())

	assert.True(t, strings.HasPrefix(out, "Descriptive development report"))
	assert.Contains(t, out, "approximately 5 years")
	assert.Contains(t, out, "development in progress", "overall 2.0 is mid band")
	assert.Contains(t, out, "Strengths: the child shows particular confidence in Social skills")
	assert.Contains(t, out, "Skills in development: Motor skills")
	assert.Contains(t, out, "Social skills:\n"+catalog[model.ThemeSocial].report[BandHigh])
	assert.Contains(t, out, "Motor skills:\n"+catalog[model.ThemeMotor].report[BandLow])
	assert.Equal(t, out, d.Report(context.Background(), sampleInput()), "output must be deterministic")
}

func TestDeterministicReportSelectsByThemeNotName(t *testing.T) {
	in := sampleInput()
	in.Scores = []model.DimensionScore{
		{DimensionName: "Habilidades Sociais", Theme: model.ThemeMotor, Mean: 3},
	}
	out := (&Deterministic{}).Report(context.Background(), in)
	assert.Contains(t, out, catalog[model.ThemeMotor].report[BandHigh])
	assert.NotContains(t, out, catalog[model.ThemeSocial].report[BandHigh])
}

func TestDeterministicGenericTheme(t *testing.T) {
	in := sampleInput()
	in.Scores = []model.DimensionScore{{DimensionName: "Music", Mean: 2.0}}
	out := (&Deterministic{}).Report(context.Background(), in)
	assert.Contains(t, out, "Music:\n"+genericText.report[BandMid])

	sug := (&Deterministic{}).Suggestions(context.Background(), in)
	assert.Contains(t, sug, genericText.home)
}

func TestDeterministicInsufficientData(t *testing.T) {
	in := Input{Bands: bands, Scale: scale}
	d := &Deterministic{}

	rep := d.Report(context.Background(), in)
	assert.Contains(t, rep, "few observed situations")
	assert.NotContains(t, rep, "Strengths:")

	sug := d.Suggestions(context.Background(), in)
	assert.Contains(t, sug, "well covered by current routines")

	plan := d.ClassPlan(context.Background(), in)
	assert.Contains(t, plan, "General objective:")
	assert.NotContains(t, plan, "Worked examples:")
}

func TestDeterministicClassPlanUsesClassCut(t *testing.T) {
	in := Input{
		Bands:   bands,
		Context: "Class: K2. Students assessed: 14.",
		Scores: []model.DimensionScore{
			{DimensionName: "Social skills", Theme: model.ThemeSocial, Mean: 2.5},
			{DimensionName: "Self-care", Theme: model.ThemeSelfCare, Mean: 2.49},
		},
	}
	out := (&Deterministic{}).ClassPlan(context.Background(), in)
	assert.Contains(t, out, "Class: K2. Students assessed: 14.")
	assert.Contains(t, out, catalog[model.ThemeSocial].classHighExamples)
	assert.Contains(t, out, catalog[model.ThemeSelfCare].classLowExamples)
	assert.Equal(t, 2, strings.Count(out, "Worked examples:"))
}

func TestExternalSuccess(t *testing.T) {
	fc := &fakeCompleter{out: "  Generated text.\n"}
	m := metrics.New()
	w := New(fc, true, WithMetrics(m))
	require.Equal(t, StrategyExternal, w.Strategy())

	out := w.Report(context.Background(), sampleInput())
	assert.Equal(t, "Generated text.", out)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, float32(0.65), fc.temp)
	assert.Equal(t, 1200, fc.tokens)
	assert.Contains(t, fc.user, "Social skills: internal level 2.80")

	w.ClassPlan(context.Background(), sampleInput())
	assert.Equal(t, 1400, fc.tokens)
}

func TestExternalFallbackMatchesDeterministic(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeCompleter
	}{
		{"error", &fakeCompleter{err: errors.New("connection refused")}},
		{"blank", &fakeCompleter{out: "   \n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			w := New(tt.fc, true, WithMetrics(m))
			det := &Deterministic{}
			ctx := context.Background()
			in := sampleInput()

			assert.Equal(t, det.Report(ctx, in), w.Report(ctx, in))
			assert.Equal(t, det.Suggestions(ctx, in), w.Suggestions(ctx, in))
			assert.Equal(t, det.ClassPlan(ctx, in), w.ClassPlan(ctx, in))
			assert.Equal(t, 3, tt.fc.calls, "no retries")

			reg := m.Registry()
			n, err := testutil.GatherAndCount(reg, "devreport_narrative_fallbacks_total")
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestNewSelectsDeterministicWhenUnavailable(t *testing.T) {
	fc := &fakeCompleter{out: "x"}
	w := New(fc, false)
	assert.Equal(t, StrategyDeterministic, w.Strategy())
	w.Report(context.Background(), sampleInput())
	assert.Zero(t, fc.calls)

	assert.Equal(t, StrategyDeterministic, New(nil, true).Strategy())
}

func TestDeterministicPortuguese(t *testing.T) {
	in := sampleInput()
	in.Language = "pt-BR"
	in.Scores = []model.DimensionScore{
		{DimensionName: "Habilidades sociais", Theme: model.ThemeSocial, Mean: 2.8},
		{DimensionName: "Habilidades motoras", Theme: model.ThemeMotor, Mean: 1.2},
	}
	d := &Deterministic{}
	ctx := context.Background()

	rep := d.Report(ctx, in)
	assert.True(t, strings.HasPrefix(rep, "Relatório descritivo de desenvolvimento"))
	assert.Contains(t, rep, "aproximadamente 5 years")
	assert.Contains(t, rep, "Habilidades sociais:\n"+portuguese.themes[model.ThemeSocial].report[BandHigh])
	assert.NotContains(t, rep, "Strengths:")

	sug := d.Suggestions(ctx, in)
	assert.Contains(t, sug, "Habilidades motoras: como a família pode apoiar em casa")

	in.Bands = bands
	plan := d.ClassPlan(ctx, in)
	assert.Equal(t, 2, strings.Count(plan, "Exemplos práticos:"))
	assert.NotContains(t, plan, "Worked examples:")

	en := sampleInput()
	en.Language = "en"
	assert.True(t, strings.HasPrefix(d.Report(ctx, en), "Descriptive development report"))
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		tag  string
		want *locale
	}{
		{"pt-BR", portuguese},
		{"pt", portuguese},
		{"en", english},
		{"en-US", english},
		{"", english},
		{"fr", english},
	}
	for _, tt := range tests {
		assert.Same(t, tt.want, localeFor(tt.tag), "tag %q", tt.tag)
	}
	assert.True(t, Portuguese("pt-BR"))
	assert.False(t, Portuguese("en"))
}

func TestPortugueseCatalogCoversEveryTheme(t *testing.T) {
	for theme := range catalog {
		_, ok := portuguese.themes[theme]
		assert.True(t, ok, "theme %s", theme)
	}
}

func TestExternalFallbackKeepsLanguage(t *testing.T) {
	w := New(&fakeCompleter{err: errors.New("timeout")}, true)
	det := &Deterministic{}
	ctx := context.Background()
	in := sampleInput()
	in.Language = "pt-BR"

	rep := w.Report(ctx, in)
	assert.Equal(t, det.Report(ctx, in), rep)
	assert.True(t, strings.HasPrefix(rep, "Relatório descritivo de desenvolvimento"))
	assert.Equal(t, det.Suggestions(ctx, in), w.Suggestions(ctx, in))
	assert.Equal(t, det.ClassPlan(ctx, in), w.ClassPlan(ctx, in))
}
