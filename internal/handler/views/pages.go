package views

import (
	"sort"
	"strconv"

	"github.com/a-h/templ"

	"github.com/pavelanni/devreport/internal/assess"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/report"
)

// LoginPage renders the login form with an optional error message.
func LoginPage(errMsg string) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("AppTitle")
		m.raw("</h1>")
		m.errorBox(errMsg)
		m.raw(`<form method="post"`)
		m.href("action", "/login")
		m.raw(">")
		m.csrf()
		m.raw("<p><label>")
		m.t("Username")
		m.raw(` <input name="username" required autofocus></label></p><p><label>`)
		m.t("Password")
		m.raw(` <input name="password" type="password" required></label></p><p><button type="submit">`)
		m.t("Login")
		m.raw("</button></p></form>")
	}))
}

// FormData feeds the rating form.
type FormData struct {
	Instrument *model.Instrument
	Stages     []string
	Sub        assess.Subject
	Levels     map[string]model.Level
	// Alt shows the secondary-language labels of the instrument.
	Alt bool
	// Action is the POST target, relative to the base path.
	Action   string
	RecordID int64
	Error    string
}

// alt picks the secondary-language text when it is wanted and present.
func alt(use bool, primary, secondary string) string {
	if use && secondary != "" {
		return secondary
	}
	return primary
}

// FormPage renders a new or edit assessment form.
func FormPage(d FormData) templ.Component {
	return page(d.Instrument.Name, component(func(m *markup) {
		m.raw("<h1>")
		if d.RecordID > 0 {
			m.t("EditAssessment")
		} else {
			m.t("NewAssessment")
		}
		m.raw("</h1>")
		m.errorBox(d.Error)

		if d.RecordID == 0 {
			stagePicker(m, d.Stages, d.Instrument.ID)
		}

		m.raw(`<form method="post"`)
		m.href("action", d.Action)
		m.raw(">")
		m.csrf()
		m.raw(`<input type="hidden" name="stage"`)
		m.attr("value", d.Instrument.ID)
		m.raw(">")
		subjectFields(m, d.Sub)

		m.raw("<h2>")
		m.text(d.Instrument.Name)
		m.raw("</h2>")
		for _, dim := range d.Instrument.Dimensions {
			m.raw("<fieldset><legend>")
			m.text(alt(d.Alt, dim.Name, dim.NameAlt))
			m.raw("</legend><table>")
			for _, it := range dim.Items {
				m.raw("<tr><td>")
				m.text(alt(d.Alt, it.Text, it.TextAlt))
				m.raw("</td><td>")
				cur, rated := d.Levels[it.Code]
				for _, def := range d.Instrument.Scale.Defs {
					m.raw(`<label><input type="radio"`)
					m.attr("name", "level_"+it.Code)
					m.attr("value", strconv.Itoa(int(def.Value)))
					m.raw(" required")
					m.checked(rated && cur == def.Value)
					m.raw("> ")
					m.text(alt(d.Alt, def.Label, def.LabelAlt))
					m.raw("</label>")
				}
				m.raw("</td></tr>")
			}
			m.raw("</table></fieldset>")
		}

		if d.RecordID > 0 {
			m.raw(`<p><label><input type="checkbox" name="regenerate"> `)
			m.t("RegenerateTexts")
			m.raw(`</label></p><p><button type="submit">`)
			m.t("SaveChanges")
		} else {
			m.raw(`<p><button type="submit">`)
			m.t("Preview")
		}
		m.raw("</button></p></form>")
	}))
}

func stagePicker(m *markup, stages []string, current string) {
	m.raw(`<form method="get"`)
	m.href("action", "/")
	m.raw("><label>")
	m.t("Stage")
	m.raw(` <select name="stage" onchange="this.form.submit()">`)
	for _, s := range stages {
		m.raw("<option")
		m.attr("value", s)
		m.selected(s == current)
		m.raw(">")
		m.text(s)
		m.raw("</option>")
	}
	m.raw("</select></label></form>")
}

func subjectFields(m *markup, sub assess.Subject) {
	input := func(label, name, value string, required bool) {
		m.raw("<label>")
		m.t(label)
		m.raw(" <input")
		m.attr("name", name)
		m.attr("value", value)
		if required {
			m.raw(" required")
		}
		m.raw("></label>")
	}

	m.raw("<fieldset><legend>")
	m.t("StudentData")
	m.raw("</legend>")
	input("StudentName", "name", sub.Name, true)
	input("Age", "age", sub.Age, false)
	m.raw("<label>")
	m.t("Sex")
	m.raw(` <select name="sex"><option value=""></option>`)
	for _, o := range []struct{ value, label string }{
		{"female", "SexFemale"},
		{"male", "SexMale"},
		{"other", "SexOther"},
	} {
		m.raw("<option")
		m.attr("value", o.value)
		m.selected(sub.Sex == o.value)
		m.raw(">")
		m.t(o.label)
		m.raw("</option>")
	}
	m.raw("</select></label>")
	input("Class", "class", sub.Class, true)
	input("Period", "period", sub.Period, false)
	input("Evaluator", "evaluator", sub.Evaluator, true)
	m.raw("</fieldset>")
}

// PreviewData feeds the review step before saving.
type PreviewData struct {
	Draft *assess.Draft
	Radar []byte
}

// PreviewPage shows scores and editable texts of an unsaved assessment.
// The submission travels in hidden fields so saving needs no server state.
func PreviewPage(d PreviewData) templ.Component {
	return page(d.Draft.Name, component(func(m *markup) {
		dr := d.Draft
		m.raw("<h1>")
		m.t("PreviewTitle")
		m.raw(": ")
		m.text(dr.Name)
		m.raw(`</h1><p><span class="badge">`)
		m.text(dr.Strategy)
		m.raw("</span></p><h2>")
		m.t("DimensionMeans")
		m.raw("</h2>")
		scoresTable(m, dr.Scores)
		m.raw("<p>")
		m.t("OverallMean")
		m.raw(": <strong>")
		m.text(report.FormatMean(dr.Overall))
		m.raw("</strong></p>")
		if src := dataURI(d.Radar); src != "" {
			m.raw("<img")
			m.attr("src", src)
			m.raw(` alt="radar" width="420">`)
		}

		m.raw(`<form method="post"`)
		m.href("action", "/assess/save")
		m.raw(">")
		m.csrf()
		hidden := func(name, value string) {
			m.raw(`<input type="hidden"`)
			m.attr("name", name)
			m.attr("value", value)
			m.raw(">")
		}
		hidden("stage", dr.Stage)
		hidden("name", dr.Name)
		hidden("age", dr.Age)
		hidden("sex", dr.Sex)
		hidden("class", dr.Class)
		hidden("period", dr.Period)
		hidden("evaluator", dr.Evaluator)
		codes := make([]string, 0, len(dr.Levels))
		for code := range dr.Levels {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			hidden("level_"+code, strconv.Itoa(int(dr.Levels[code])))
		}
		textAreas(m, dr.Report, dr.Suggestions)
		m.raw(`<p><button type="submit">`)
		m.t("Save")
		m.raw("</button></p></form>")
	}))
}

// textAreas writes the editable report and suggestion texts.
func textAreas(m *markup, reportText, suggestions string) {
	m.raw("<h2>")
	m.t("IndividualReport")
	m.raw(`</h2><textarea name="report">`)
	m.text(reportText)
	m.raw("</textarea><h2>")
	m.t("HomeSuggestions")
	m.raw(`</h2><textarea name="suggestions">`)
	m.text(suggestions)
	m.raw("</textarea>")
}

// scoresTable lists dimension means, or a no-data line when there are none.
func scoresTable(m *markup, scores []model.DimensionScore) {
	if len(scores) == 0 {
		m.raw("<p>")
		m.t("NoData")
		m.raw("</p>")
		return
	}
	m.raw("<table><tr><th>")
	m.t("Dimension")
	m.raw("</th><th>")
	m.t("Mean")
	m.raw("</th></tr>")
	for _, s := range scores {
		m.raw("<tr><td>")
		m.text(s.DimensionName)
		m.raw("</td><td>")
		m.rawf("%.2f", s.Mean)
		m.raw("</td></tr>")
	}
	m.raw("</table>")
}
