package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/pavelanni/devreport/internal/assess"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/report"
)

// FilterData feeds the filter bar shared by list pages.
type FilterData struct {
	Filter  model.RecordFilter
	Options map[string][]string
	// Query is the encoded filter, appended to export links.
	Query string
}

func filterBar(m *markup, d FilterData) {
	m.raw(`<form method="get" class="filter"><label>`)
	m.t("StudentName")
	m.raw(` <input name="student"`)
	m.attr("value", d.Filter.Student)
	m.raw("></label>")
	for _, f := range []struct{ name, label, value string }{
		{"class", "Class", d.Filter.Class},
		{"evaluator", "Evaluator", d.Filter.Evaluator},
		{"period", "Period", d.Filter.Period},
		{"school", "School", d.Filter.School},
		{"stage", "Stage", d.Filter.Stage},
	} {
		m.raw("<label>")
		m.t(f.label)
		m.raw(" <select")
		m.attr("name", f.name)
		m.raw(`><option value="">`)
		m.t("All")
		m.raw("</option>")
		for _, o := range d.Options[f.name] {
			m.raw("<option")
			m.attr("value", o)
			m.selected(o == f.value)
			m.raw(">")
			m.text(o)
			m.raw("</option>")
		}
		m.raw("</select></label>")
	}
	m.raw(`<button type="submit">`)
	m.t("Filter")
	m.raw("</button></form>")
}

// withQuery appends an encoded query to an application path.
func withQuery(p, query string) string {
	if query == "" {
		return p
	}
	return p + "?" + query
}

// RecordsData feeds the records list.
type RecordsData struct {
	FilterData
	Records []model.AssessmentRecord
}

// RecordsPage lists stored assessments.
func RecordsPage(d RecordsData) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("NavRecords")
		m.raw("</h1>")
		filterBar(m, d.FilterData)
		m.raw("<p>")
		m.text(appI18n.Tp(m.ctx, "RecordsFound", len(d.Records)))
		m.raw("</p>")
		if len(d.Records) == 0 {
			return
		}
		m.raw("<table><tr>")
		for _, h := range []string{"StudentName", "Class", "Evaluator", "Period", "Stage", "OverallMean", "CreatedAt"} {
			m.raw("<th>")
			m.t(h)
			m.raw("</th>")
		}
		m.raw("</tr>")
		for _, rec := range d.Records {
			m.raw("<tr><td><a")
			m.href("href", fmt.Sprintf("/records/%d", rec.ID))
			m.raw(">")
			m.text(rec.Name)
			m.raw("</a></td>")
			for _, v := range []string{
				rec.Class, rec.Evaluator, rec.Period, rec.Stage,
				report.FormatMean(rec.Overall), rec.CreatedAt.Format("2006-01-02 15:04"),
			} {
				m.raw("<td>")
				m.text(v)
				m.raw("</td>")
			}
			m.raw("</tr>")
		}
		m.raw("</table>")
	}))
}

// RecordData feeds the detail page of one record.
type RecordData struct {
	Record *model.AssessmentRecord
	Items  []report.ItemRow
}

// RecordPage shows one stored assessment.
func RecordPage(d RecordData) templ.Component {
	return page(d.Record.Name, component(func(m *markup) {
		rec := d.Record
		base := fmt.Sprintf("/records/%d", rec.ID)
		orNotGiven := func(s string) string {
			if s == "" {
				return appI18n.T(m.ctx, "NotGiven")
			}
			return s
		}

		m.raw("<h1>")
		m.text(rec.Name)
		m.raw("</h1><table>")
		for _, row := range []struct{ label, value string }{
			{"Age", orNotGiven(rec.Age)},
			{"Sex", orNotGiven(rec.Sex)},
			{"Class", rec.Class},
			{"Period", rec.Period},
			{"Evaluator", rec.Evaluator},
			{"Stage", rec.Stage},
			{"OverallMean", report.FormatMean(rec.Overall)},
		} {
			m.raw("<tr><th>")
			m.t(row.label)
			m.raw("</th><td>")
			m.text(row.value)
			m.raw("</td></tr>")
		}
		m.raw("</table>")

		m.raw(`<p class="actions">`)
		for i, l := range []struct{ path, label string }{
			{"/report.html", "PrintHTML"},
			{"/report.pdf", ""},
			{"/items.csv", "ItemsCSV"},
			{"/dimensions.csv", "DimensionsCSV"},
			{"/edit", "EditResponses"},
		} {
			if i > 0 {
				m.raw(" · ")
			}
			m.raw("<a")
			m.href("href", base+l.path)
			if l.path == "/report.html" {
				m.raw(` target="_blank"`)
			}
			m.raw(">")
			if l.label == "" {
				m.raw("PDF")
			} else {
				m.t(l.label)
			}
			m.raw("</a>")
		}
		m.raw(` <form method="post"`)
		m.href("action", base+"/delete")
		m.attr("data-confirm", appI18n.T(m.ctx, "ConfirmDelete"))
		m.raw(` onsubmit="return confirm(this.dataset.confirm)">`)
		m.csrf()
		m.raw(`<button type="submit">`)
		m.t("Delete")
		m.raw("</button></form></p>")

		m.raw("<h2>")
		m.t("DimensionMeans")
		m.raw("</h2>")
		scoresTable(m, rec.Scores)
		m.raw("<img")
		m.href("src", base+"/radar.png")
		m.raw(` alt="radar" width="420">`)

		m.raw(`<form method="post"`)
		m.href("action", base+"/texts")
		m.raw(">")
		m.csrf()
		textAreas(m, rec.Report, rec.Suggestions)
		m.raw(`<p><button type="submit">`)
		m.t("SaveTexts")
		m.raw("</button></p></form>")

		m.raw("<h2>")
		m.t("Items")
		m.raw("</h2><table><tr><th>")
		m.t("Dimension")
		m.raw("</th><th>")
		m.t("Item")
		m.raw("</th><th>")
		m.t("Rating")
		m.raw("</th></tr>")
		for _, it := range d.Items {
			m.raw("<tr><td>")
			m.text(it.Dimension)
			m.raw("</td><td>")
			m.text(it.Text)
			m.raw("</td><td>")
			m.text(it.Label)
			m.raw("</td></tr>")
		}
		m.raw("</table>")
	}))
}

// ConsolidatedData feeds the consolidated views.
type ConsolidatedData struct {
	FilterData
	C     *assess.Consolidated
	Error string
}

// ConsolidatedPage shows means per class, evaluator and dimension.
func ConsolidatedPage(d ConsolidatedData) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("NavConsolidated")
		m.raw("</h1>")
		filterBar(m, d.FilterData)
		m.errorBox(d.Error)
		c := d.C
		if c == nil {
			return
		}
		m.raw("<p>")
		m.text(appI18n.Tp(m.ctx, "RecordsFound", c.Records))
		m.raw(" · ")
		m.t("OverallMean")
		m.raw(": <strong>")
		m.text(report.FormatMean(c.Overall))
		m.raw("</strong></p>")

		for _, g := range []struct {
			title, header, view string
			rows              []model.GroupMean
		}{
			{"MeanByClass", "Class", "class", c.ByClass},
			{"MeanByEvaluator", "Evaluator", "evaluator", c.ByEvaluator},
			{"MeanByDimension", "Dimension", "dimension", c.DimensionRows()},
		} {
			m.raw("<h2>")
			m.t(g.title)
			m.raw("</h2>")
			groupsTable(m, appI18n.T(m.ctx, g.header), g.rows)
			m.raw("<p><a")
			m.href("href", withQuery("/consolidated/"+g.view+".csv", d.Query))
			m.raw(">CSV</a></p>")
		}

		if c.Records > 0 {
			m.raw("<p><a")
			m.href("href", withQuery("/class-report", d.Query))
			m.raw(` target="_blank">`)
			m.t("ClassReport")
			m.raw("</a></p>")
		}
	}))
}

func groupsTable(m *markup, header string, rows []model.GroupMean) {
	if len(rows) == 0 {
		m.raw("<p>")
		m.t("NoData")
		m.raw("</p>")
		return
	}
	m.raw("<table><tr><th>")
	m.text(header)
	m.raw("</th><th>")
	m.t("Records")
	m.raw("</th><th>")
	m.t("Mean")
	m.raw("</th></tr>")
	for _, r := range rows {
		m.raw("<tr><td>")
		m.text(r.Label)
		m.raw("</td><td>")
		m.rawf("%d", r.Count)
		m.raw("</td><td>")
		m.text(report.FormatMean(r.Mean))
		m.raw("</td></tr>")
	}
	m.raw("</table>")
}
