package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pavelanni/devreport/internal/model"
)

// utf8BOM lets spreadsheet tools detect the encoding of accented names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is a header plus rows, rendered as BOM-prefixed CSV.
type table struct {
	headers []string
	rows    [][]string
}

func (t table) render() ([]byte, error) {
	if len(t.headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	w := csv.NewWriter(buf)
	if err := w.Write(t.headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range t.rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ItemsCSV lists every rated item of the document.
func ItemsCSV(doc *Document) ([]byte, error) {
	t := table{headers: []string{"dimension", "item_code", "item", "level", "label"}}
	for _, it := range doc.Items {
		t.rows = append(t.rows, []string{
			it.Dimension, it.Code, it.Text, strconv.Itoa(int(it.Level)), it.Label,
		})
	}
	return t.render()
}

// DimensionsCSV lists the dimension means of rec. With an instrument, every
// dimension gets a row and those without eligible responses read "no data".
func DimensionsCSV(rec model.AssessmentRecord, in *model.Instrument) ([]byte, error) {
	t := table{headers: []string{"dimension_code", "dimension", "mean"}}
	scores := make(map[string]float64, len(rec.Scores))
	for _, s := range rec.Scores {
		scores[s.DimensionCode] = s.Mean
	}
	if in == nil {
		for _, s := range rec.Scores {
			t.rows = append(t.rows, []string{s.DimensionCode, s.DimensionName, formatFloat(s.Mean)})
		}
		return t.render()
	}
	for _, d := range in.Dimensions {
		mean := NoData
		if v, ok := scores[d.Code]; ok {
			mean = formatFloat(v)
		}
		t.rows = append(t.rows, []string{d.Code, d.Name, mean})
	}
	return t.render()
}

// ConsolidatedCSV renders one consolidated view; keyHeader names the first
// column ("class", "evaluator", "dimension").
func ConsolidatedCSV(keyHeader string, rows []model.GroupMean) ([]byte, error) {
	t := table{headers: []string{keyHeader, "records", "mean"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r.Label, strconv.Itoa(r.Count), FormatMean(r.Mean)})
	}
	return t.render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
