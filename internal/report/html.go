package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	recordTmpl = template.Must(template.New("record.html.tmpl").Funcs(funcs).
			ParseFS(templateFS, "templates/record.html.tmpl", "templates/style.tmpl"))
	classTmpl = template.Must(template.New("class.html.tmpl").Funcs(funcs).
			ParseFS(templateFS, "templates/class.html.tmpl", "templates/style.tmpl"))
)

var funcs = template.FuncMap{
	"dataURI": dataURI,
	"mean":    FormatMean,
}

// FormatMean prints a mean with two decimals, or "no data" when absent.
func FormatMean(v *float64) string {
	if v == nil {
		return NoData
	}
	return fmt.Sprintf("%.2f", *v)
}

// NoData marks an absent value in rendered output.
const NoData = "no data"

func dataURI(b []byte) template.URL {
	if len(b) == 0 {
		return ""
	}
	return template.URL("data:" + http.DetectContentType(b) + ";base64," +
		base64.StdEncoding.EncodeToString(b))
}

// HTML renders a self-contained printable page for one assessment.
func HTML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := recordTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render record html: %w", err)
	}
	return buf.Bytes(), nil
}

// ClassHTML renders the consolidated class or evaluator report.
func ClassHTML(doc *ClassDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := classTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render class html: %w", err)
	}
	return buf.Bytes(), nil
}
