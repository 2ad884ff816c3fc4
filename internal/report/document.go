// Package report renders stored assessments into printable and exportable
// artifacts: radar chart, HTML, PDF and CSV files.
package report

import (
	"fmt"
	"time"

	"github.com/pavelanni/devreport/internal/model"
)

// ItemRow is one line of the item table with the level label resolved.
type ItemRow struct {
	Dimension string
	Code      string
	Text      string
	Level     model.Level
	Label     string
}

// Document is everything needed to print one individual assessment.
type Document struct {
	School         string
	Logo           []byte
	InstrumentName string
	Record         model.AssessmentRecord
	Items          []ItemRow
	Radar          []byte
	ScaleMax       int
	GeneratedAt    time.Time
}

// NewDocument resolves level labels and draws the radar for rec. in may be
// nil when the instrument of a stored record is no longer registered; the
// item table then shows raw levels.
func NewDocument(rec model.AssessmentRecord, in *model.Instrument, school string, logo []byte) (*Document, error) {
	doc := &Document{
		School:      school,
		Logo:        logo,
		Record:      rec,
		GeneratedAt: time.Now(),
	}
	var scale model.RatingScale
	if in != nil {
		doc.InstrumentName = in.Name
		scale = in.Scale
	}
	for _, r := range rec.Responses {
		label := scale.Label(r.Level)
		if label == "" {
			label = fmt.Sprintf("%d", r.Level)
		}
		doc.Items = append(doc.Items, ItemRow{
			Dimension: r.DimensionName,
			Code:      r.ItemCode,
			Text:      r.ItemText,
			Level:     r.Level,
			Label:     label,
		})
	}
	if in == nil {
		scale = inferScale(rec.Scores)
	}
	doc.ScaleMax = int(scale.Max())

	radar, err := Radar(rec.Scores, scale, "Profile by dimension")
	if err != nil {
		return nil, err
	}
	doc.Radar = radar
	return doc, nil
}

// inferScale builds a 0..ceil(max mean) scale, at least 0..3.
func inferScale(scores []model.DimensionScore) model.RatingScale {
	top := 3
	for _, s := range scores {
		for float64(top) < s.Mean {
			top++
		}
	}
	var sc model.RatingScale
	for l := 0; l <= top; l++ {
		sc.Defs = append(sc.Defs, model.LevelDef{Value: model.Level(l)})
	}
	return sc
}

// ClassDocument is the consolidated report of a group of records, such as
// one evaluator's or one class's students.
type ClassDocument struct {
	School      string
	Logo        []byte
	Title       string
	Filter      model.RecordFilter
	Students    int
	Overall     *float64
	Dimensions  []model.DimensionScore
	ByClass     []model.GroupMean
	ByEvaluator []model.GroupMean
	Plan        string
	Radar       []byte
	ScaleMax    int
	GeneratedAt time.Time
}
