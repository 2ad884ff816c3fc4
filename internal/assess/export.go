package assess

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/report"
)

// Export returns the records matching filter, oldest first, with level
// labels resolved from their instruments.
func (s *Service) Export(ctx context.Context, filter model.RecordFilter) (*model.RecordsExport, error) {
	records, err := s.store.ExportRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}
	out := &model.RecordsExport{
		School:      s.School(ctx),
		GeneratedAt: time.Now(),
		Filter:      filter,
		Records:     make([]model.RecordExport, 0, len(records)),
	}
	scales := make(map[string]*model.Instrument)
	for _, rec := range records {
		in, ok := scales[rec.Stage]
		if !ok {
			in = s.lookup(rec.Stage)
			scales[rec.Stage] = in
		}
		re := model.RecordExport{
			Ref:         rec.Ref,
			Stage:       rec.Stage,
			Subject:     rec.Subject,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
			Overall:     rec.Overall,
			Dimensions:  rec.Scores,
			Report:      rec.Report,
			Suggestions: rec.Suggestions,
			Responses:   make([]model.ResponseExport, 0, len(rec.Responses)),
		}
		if re.Dimensions == nil {
			re.Dimensions = []model.DimensionScore{}
		}
		for _, r := range rec.Responses {
			label := ""
			if in != nil {
				label = in.Scale.Label(r.Level)
			}
			re.Responses = append(re.Responses, model.ResponseExport{Response: r, Label: label})
		}
		out.Records = append(out.Records, re)
	}
	return out, nil
}

// exportFiles writes the HTML, PDF, CSV and radar files of a saved record
// into the export directory. Failures are logged; the record stays saved.
func (s *Service) exportFiles(ctx context.Context, rec *model.AssessmentRecord, in *model.Instrument) {
	if s.cfg.ExportDir == "" {
		return
	}
	paths, err := s.writeFiles(ctx, rec, in, s.cfg.ExportDir, time.Now())
	if err != nil {
		slog.Warn("export files", "id", rec.ID, "dir", s.cfg.ExportDir, "error", err)
		return
	}
	slog.Info("export files written", "id", rec.ID, "files", len(paths))
}

// WriteFiles renders a stored record into dir and returns the file paths.
func (s *Service) WriteFiles(ctx context.Context, id int64, dir string) ([]string, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.writeFiles(ctx, rec, s.lookup(rec.Stage), dir, time.Now())
}

func (s *Service) writeFiles(ctx context.Context, rec *model.AssessmentRecord, in *model.Instrument, dir string, at time.Time) ([]string, error) {
	doc, err := s.document(ctx, rec, in)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	base := filepath.Join(dir, report.FileBase(rec.Name, at))

	files := []struct {
		suffix string
		render func() ([]byte, error)
	}{
		{".html", func() ([]byte, error) { return report.HTML(doc) }},
		{".pdf", func() ([]byte, error) { return report.PDF(doc) }},
		{"_items.csv", func() ([]byte, error) { return report.ItemsCSV(doc) }},
		{"_dimensions.csv", func() ([]byte, error) { return report.DimensionsCSV(*rec, in) }},
		{"_radar.png", func() ([]byte, error) { return doc.Radar, nil }},
	}
	var paths []string
	for _, f := range files {
		data, err := f.render()
		if err != nil {
			return paths, err
		}
		p := base + f.suffix
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
