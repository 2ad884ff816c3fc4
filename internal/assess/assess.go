// Package assess runs the assessment pipeline: validate a submission, score
// it, write the narrative texts and persist the result.
package assess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/devreport/internal/instrument"
	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/narrative"
	"github.com/pavelanni/devreport/internal/report"
	"github.com/pavelanni/devreport/internal/score"
	"github.com/pavelanni/devreport/internal/store"
)

var (
	// ErrInvalid wraps attribute validation and instrument mismatches.
	ErrInvalid = errors.New("invalid submission")
	// ErrIncomplete means at least one item of the instrument has no level.
	ErrIncomplete = errors.New("incomplete response set")
	// ErrNoRecords means a consolidated view matched nothing.
	ErrNoRecords = errors.New("no records match the filter")
	// ErrMixedStages means a class plan was requested over several instruments.
	ErrMixedStages = errors.New("records span more than one stage")
)

// Report title formats, English and Portuguese.
const (
	ReportTitle   = "Individual report of %s"
	ReportTitlePT = "Relatório individual de %s"
)

// reportTitle formats the heading that prefixes an individual report.
func reportTitle(lang, name string) string {
	if narrative.Portuguese(lang) {
		return fmt.Sprintf(ReportTitlePT, name)
	}
	return fmt.Sprintf(ReportTitle, name)
}

type recordStore interface {
	CreateRecord(ctx context.Context, rec *model.AssessmentRecord) (int64, error)
	UpdateRecord(ctx context.Context, rec *model.AssessmentRecord) error
	UpdateNarrative(ctx context.Context, id int64, report, suggestions string) error
	DeleteRecord(ctx context.Context, id int64) error
	GetRecord(ctx context.Context, id int64) (*model.AssessmentRecord, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.AssessmentRecord, error)
	ExportRecords(ctx context.Context, filter model.RecordFilter) ([]model.AssessmentRecord, error)
	Distinct(ctx context.Context, f store.Field) ([]string, error)

	SavePlan(ctx context.Context, p *model.IndividualPlan) (int64, error)
	GetPlan(ctx context.Context, student, class string) (*model.IndividualPlan, error)
	GetPlanByID(ctx context.Context, id int64) (*model.IndividualPlan, error)
	ListPlans(ctx context.Context, class string) ([]model.IndividualPlan, error)
	DeletePlan(ctx context.Context, id int64) error

	GetSchoolSettings(ctx context.Context) (model.SchoolSettings, error)
}

// Subject holds the form attributes of the assessed student.
type Subject struct {
	Name      string `validate:"required,max=120"`
	Age       string `validate:"max=40"`
	Sex       string `validate:"omitempty,oneof=female male other"`
	Class     string `validate:"required,max=60"`
	Evaluator string `validate:"required,max=120"`
	Period    string `validate:"max=60"`
	School    string `validate:"max=120"`
}

func (s Subject) model() model.Subject {
	return model.Subject{
		Name:      strings.TrimSpace(s.Name),
		Age:       strings.TrimSpace(s.Age),
		Sex:       s.Sex,
		Class:     strings.TrimSpace(s.Class),
		Evaluator: strings.TrimSpace(s.Evaluator),
		Period:    strings.TrimSpace(s.Period),
		School:    strings.TrimSpace(s.School),
	}
}

// SubjectOf converts stored attributes back into form attributes.
func SubjectOf(m model.Subject) Subject {
	return Subject{
		Name:      m.Name,
		Age:       m.Age,
		Sex:       m.Sex,
		Class:     m.Class,
		Evaluator: m.Evaluator,
		Period:    m.Period,
		School:    m.School,
	}
}

// Submission is one completed rating form.
type Submission struct {
	Stage string `validate:"required"`
	Subject
	// Levels maps item code to the chosen level.
	Levels map[string]model.Level
	// Language selects the narrative language; empty uses the default.
	Language string
}

// Texts are narrative texts edited by the evaluator.
type Texts struct {
	Report      string
	Suggestions string
}

// Draft is a scored submission with its narrative, ready to be reviewed,
// edited and saved.
type Draft struct {
	Submission
	Instrument *model.Instrument
	Responses  []model.Response
	Scores     []model.DimensionScore
	Overall    *float64
	Texts
	Strategy string
}

// Record builds the persisted form of the draft.
func (d *Draft) Record() model.AssessmentRecord {
	return model.AssessmentRecord{
		Stage:       d.Stage,
		Subject:     d.Subject.model(),
		Overall:     d.Overall,
		Report:      d.Report,
		Suggestions: d.Suggestions,
		Responses:   d.Responses,
		Scores:      d.Scores,
	}
}

// Config holds the service's deployment parameters.
type Config struct {
	School    string
	LogoPath  string
	ExportDir string
	Language  string
}

// Service is the assessment pipeline.
type Service struct {
	store       recordStore
	instruments *instrument.Registry
	writer      narrative.Writer
	metrics     *metrics.Metrics
	validate    *validator.Validate
	cfg         Config

	logoOnce sync.Once
	logo     []byte
}

// New builds a Service. A nil writer uses the deterministic strategy.
func New(st recordStore, reg *instrument.Registry, w narrative.Writer, m *metrics.Metrics, cfg Config) *Service {
	if w == nil {
		w = narrative.New(nil, false, narrative.WithMetrics(m))
	}
	return &Service{
		store:       st,
		instruments: reg,
		writer:      w,
		metrics:     m,
		validate:    validator.New(),
		cfg:         cfg,
	}
}

// Instruments exposes the registry for form rendering.
func (s *Service) Instruments() *instrument.Registry { return s.instruments }

// Strategy names the narrative strategy in use.
func (s *Service) Strategy() string { return s.writer.Strategy() }

// Preview validates and scores sub and writes both narrative texts. Nothing
// is persisted.
func (s *Service) Preview(ctx context.Context, sub Submission) (*Draft, error) {
	d, err := s.Score(sub)
	if err != nil {
		return nil, err
	}
	in := s.narrativeInput(ctx, d)
	d.Report = reportTitle(in.Language, d.Subject.model().Name) + "\n\n" + s.writer.Report(ctx, in)
	d.Suggestions = s.writer.Suggestions(ctx, in)
	d.Strategy = s.writer.Strategy()
	return d, nil
}

// Score runs the form-layer checks and the aggregator without writing any
// narrative. The save step uses it with the texts the evaluator reviewed.
func (s *Service) Score(sub Submission) (*Draft, error) {
	if err := s.validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	in, err := s.instruments.Lookup(sub.Stage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if missing := instrument.Missing(in, sub.Levels); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %d item(s) without a level: %s",
			ErrIncomplete, len(missing), strings.Join(missing, ", "))
	}
	responses, err := instrument.Responses(in, sub.Levels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	res := score.Aggregate(responses, in.Scale)
	instrument.Annotate(in, res.Dimensions)
	return &Draft{
		Submission: sub,
		Instrument: in,
		Responses:  res.Items,
		Scores:     res.Dimensions,
		Overall:    res.Overall,
	}, nil
}

func (s *Service) narrativeInput(ctx context.Context, d *Draft) narrative.Input {
	subj := d.Subject.model()
	lang := s.language(d.Language)
	return narrative.Input{
		Scores:    s.dimensionNames(d.Instrument, d.Scores, lang),
		Overall:   d.Overall,
		Bands:     d.Instrument.Bands,
		Scale:     d.Instrument.Scale,
		Age:       subj.Age,
		Sex:       subj.Sex,
		PlanNotes: s.planNotes(ctx, subj.Name, subj.Class),
		Language:  lang,
	}
}

// dimensionNames switches scores to the instrument's alternate names when
// the narrative is written in Portuguese. Stored scores keep their names.
func (s *Service) dimensionNames(in *model.Instrument, scores []model.DimensionScore, lang string) []model.DimensionScore {
	if !narrative.Portuguese(lang) {
		return scores
	}
	return instrument.Localize(in, scores)
}

// planNotes flattens the student's individual plan into narrative context.
// A missing plan or a lookup failure yields no notes.
func (s *Service) planNotes(ctx context.Context, student, class string) string {
	p, err := s.store.GetPlan(ctx, student, class)
	if err != nil {
		slog.Warn("load individual plan", "student", student, "error", err)
		return ""
	}
	if p == nil || p.Empty() {
		return ""
	}
	var b strings.Builder
	for _, f := range []struct{ label, text string }{
		{"Profile", p.Profile},
		{"Strengths", p.Strengths},
		{"Skills in development", p.Developing},
		{"Supports", p.Supports},
		{"Accommodations", p.Accommodations},
	} {
		if t := strings.TrimSpace(f.text); t != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, t)
		}
	}
	return strings.TrimSpace(b.String())
}

func (s *Service) language(lang string) string {
	if lang != "" {
		return lang
	}
	return s.cfg.Language
}

// Save persists a reviewed draft, optionally with edited texts, and writes
// export files when an export directory is configured.
func (s *Service) Save(ctx context.Context, d *Draft, texts *Texts) (*model.AssessmentRecord, error) {
	if texts != nil {
		d.Texts = *texts
	}
	rec := d.Record()
	if rec.School == "" {
		rec.School = s.School(ctx)
	}
	id, err := s.store.CreateRecord(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	rec.ID = id
	s.metrics.RecordSaved()
	slog.Info("assessment saved", "id", id, "stage", rec.Stage, "strategy", d.Strategy)

	s.exportFiles(ctx, &rec, d.Instrument)
	return &rec, nil
}

// Edit re-scores a stored record from a new submission and replaces its
// responses and scores in one transaction. With texts nil the narratives
// are written again.
func (s *Service) Edit(ctx context.Context, id int64, sub Submission, texts *Texts) (*model.AssessmentRecord, error) {
	existing, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	var d *Draft
	if texts == nil {
		d, err = s.Preview(ctx, sub)
	} else {
		d, err = s.Score(sub)
	}
	if err != nil {
		return nil, err
	}
	if texts != nil {
		d.Texts = *texts
	}

	rec := d.Record()
	rec.ID = id
	rec.Ref = existing.Ref
	rec.CreatedAt = existing.CreatedAt
	if rec.School == "" {
		rec.School = existing.School
	}
	if err := s.store.UpdateRecord(ctx, &rec); err != nil {
		return nil, fmt.Errorf("update assessment %d: %w", id, err)
	}
	slog.Info("assessment updated", "id", id)
	return &rec, nil
}

// UpdateTexts replaces only the narrative texts of a stored record.
func (s *Service) UpdateTexts(ctx context.Context, id int64, texts Texts) error {
	if err := s.store.UpdateNarrative(ctx, id, texts.Report, texts.Suggestions); err != nil {
		return fmt.Errorf("update texts of %d: %w", id, err)
	}
	return nil
}

// Delete removes a record with its responses and scores.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete assessment %d: %w", id, err)
	}
	s.metrics.RecordDeleted()
	slog.Info("assessment deleted", "id", id)
	return nil
}

// Get returns a stored record with responses and scores.
func (s *Service) Get(ctx context.Context, id int64) (*model.AssessmentRecord, error) {
	return s.store.GetRecord(ctx, id)
}

// List returns stored records matching filter, newest first.
func (s *Service) List(ctx context.Context, filter model.RecordFilter) ([]model.AssessmentRecord, error) {
	return s.store.ListRecords(ctx, filter)
}

// FilterOptions returns the distinct values of each filterable attribute.
func (s *Service) FilterOptions(ctx context.Context) (map[store.Field][]string, error) {
	out := make(map[store.Field][]string)
	for _, f := range []store.Field{
		store.FieldClass, store.FieldEvaluator, store.FieldSchool,
		store.FieldPeriod, store.FieldStage,
	} {
		vals, err := s.store.Distinct(ctx, f)
		if err != nil {
			return nil, err
		}
		out[f] = vals
	}
	return out, nil
}

// School returns the school name from runtime settings, falling back to
// the configured one.
func (s *Service) School(ctx context.Context) string {
	ss, err := s.store.GetSchoolSettings(ctx)
	if err != nil {
		slog.Warn("load school settings", "error", err)
	}
	if ss.School != "" {
		return ss.School
	}
	return s.cfg.School
}

// DefaultPeriod returns the period pre-filled on new forms.
func (s *Service) DefaultPeriod(ctx context.Context) string {
	ss, err := s.store.GetSchoolSettings(ctx)
	if err != nil {
		return ""
	}
	return ss.Period
}

// Logo returns the scaled logo, or nil when none is configured or it
// cannot be read.
func (s *Service) Logo() []byte {
	s.logoOnce.Do(func() {
		logo, err := report.LoadLogo(s.cfg.LogoPath)
		if err != nil {
			slog.Warn("logo unavailable", "path", s.cfg.LogoPath, "error", err)
			return
		}
		s.logo = logo
	})
	return s.logo
}

// Document rebuilds the printable document of a stored record.
func (s *Service) Document(ctx context.Context, id int64) (*report.Document, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.document(ctx, rec, s.lookup(rec.Stage))
}

func (s *Service) document(ctx context.Context, rec *model.AssessmentRecord, in *model.Instrument) (*report.Document, error) {
	school := rec.School
	if school == "" {
		school = s.School(ctx)
	}
	return report.NewDocument(*rec, in, school, s.Logo())
}

// lookup returns the instrument of a stored stage, or nil when it is no
// longer registered.
func (s *Service) lookup(stage string) *model.Instrument {
	in, err := s.instruments.Lookup(stage)
	if err != nil {
		slog.Warn("stored record uses an unknown stage", "stage", stage)
		return nil
	}
	return in
}
