package assess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/narrative"
	"github.com/pavelanni/devreport/internal/report"
	"github.com/pavelanni/devreport/internal/score"
)

// Consolidated holds the group views over a set of stored records.
type Consolidated struct {
	Filter      model.RecordFilter
	Records     int
	Overall     *float64
	ByClass     []model.GroupMean
	ByEvaluator []model.GroupMean
	ByDimension []model.DimensionScore
}

// DimensionRows returns ByDimension in the shape of the other views.
func (c *Consolidated) DimensionRows() []model.GroupMean {
	out := make([]model.GroupMean, 0, len(c.ByDimension))
	for _, d := range c.ByDimension {
		mean := d.Mean
		out = append(out, model.GroupMean{
			Key:   d.DimensionCode,
			Label: d.DimensionName,
			Mean:  &mean,
			Count: c.Records,
		})
	}
	return out
}

// Consolidate averages stored results over the records matching filter.
// Overall is the mean of the stored overall scores, skipping absent ones.
func (s *Service) Consolidate(ctx context.Context, filter model.RecordFilter) (*Consolidated, error) {
	records, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("consolidate: %w", err)
	}
	return consolidate(filter, records), nil
}

func consolidate(filter model.RecordFilter, records []model.AssessmentRecord) *Consolidated {
	return &Consolidated{
		Filter:  filter,
		Records: len(records),
		Overall: score.OverallMean(records),
		ByClass: score.GroupBy(records, func(r model.AssessmentRecord) string {
			return r.Class
		}),
		ByEvaluator: score.GroupBy(records, func(r model.AssessmentRecord) string {
			return r.Evaluator
		}),
		ByDimension: score.ByDimension(records),
	}
}

// ClassReport consolidates the records matching filter and writes the
// whole-class development plan. All records must share one stage so the
// plan uses a single instrument's cut points.
func (s *Service) ClassReport(ctx context.Context, filter model.RecordFilter, lang string) (*report.ClassDocument, error) {
	records, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("class report: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	stage, err := commonStage(filter, records)
	if err != nil {
		return nil, err
	}
	in, err := s.instruments.Lookup(stage)
	if err != nil {
		return nil, fmt.Errorf("class report: %w", err)
	}

	c := consolidate(filter, records)
	lang = s.language(lang)
	dims := s.dimensionNames(in, c.ByDimension, lang)
	plan := s.writer.ClassPlan(ctx, narrative.Input{
		Scores:   dims,
		Overall:  c.Overall,
		Bands:    in.Bands,
		Scale:    in.Scale,
		Context:  classContext(filter, records),
		Language: lang,
	})

	radar, err := report.Radar(dims, in.Scale, "Class profile by dimension")
	if err != nil {
		return nil, err
	}
	return &report.ClassDocument{
		School:      s.School(ctx),
		Logo:        s.Logo(),
		Title:       classTitle(filter),
		Filter:      filter,
		Students:    c.Records,
		Overall:     c.Overall,
		Dimensions:  c.ByDimension,
		ByClass:     c.ByClass,
		ByEvaluator: c.ByEvaluator,
		Plan:        plan,
		Radar:       radar,
		ScaleMax:    int(in.Scale.Max()),
		GeneratedAt: time.Now(),
	}, nil
}

func commonStage(filter model.RecordFilter, records []model.AssessmentRecord) (string, error) {
	if filter.Stage != "" {
		return filter.Stage, nil
	}
	stage := records[0].Stage
	for _, r := range records[1:] {
		if r.Stage != stage {
			return "", fmt.Errorf("%w: %s and %s", ErrMixedStages, stage, r.Stage)
		}
	}
	return stage, nil
}

// classContext builds the sentence that introduces a class plan.
func classContext(filter model.RecordFilter, records []model.AssessmentRecord) string {
	var parts []string
	if filter.Evaluator != "" {
		parts = append(parts, fmt.Sprintf("Report for evaluator %s.", filter.Evaluator))
	}
	classes := distinct(records, func(r model.AssessmentRecord) string { return r.Class })
	if filter.Class != "" {
		classes = []string{filter.Class}
	}
	if len(classes) > 0 {
		parts = append(parts, fmt.Sprintf("Class: %s.", strings.Join(classes, ", ")))
	}
	if filter.Period != "" {
		parts = append(parts, fmt.Sprintf("Period: %s.", filter.Period))
	}
	parts = append(parts, fmt.Sprintf("Number of children assessed: %d.", len(records)))
	return strings.Join(parts, " ")
}

func classTitle(filter model.RecordFilter) string {
	switch {
	case filter.Evaluator != "":
		return "Evaluator report: " + filter.Evaluator
	case filter.Class != "":
		return "Class report: " + filter.Class
	default:
		return "Consolidated report"
	}
}

func distinct(records []model.AssessmentRecord, key func(model.AssessmentRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
