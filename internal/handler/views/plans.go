package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/pavelanni/devreport/internal/model"
)

// PlansData feeds the individual plan list.
type PlansData struct {
	Class string
	Plans []model.IndividualPlan
}

// PlansPage lists individual plans.
func PlansPage(d PlansData) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("NavPlans")
		m.raw(`</h1><form method="get"><label>`)
		m.t("Class")
		m.raw(` <input name="class"`)
		m.attr("value", d.Class)
		m.raw(`></label> <button type="submit">`)
		m.t("Filter")
		m.raw("</button> <a")
		m.href("href", "/plans/new")
		m.raw(">")
		m.t("NewPlan")
		m.raw("</a></form>")

		if len(d.Plans) == 0 {
			m.raw("<p>")
			m.t("NoPlans")
			m.raw("</p>")
			return
		}
		m.raw("<table><tr><th>")
		m.t("StudentName")
		m.raw("</th><th>")
		m.t("Class")
		m.raw("</th><th>")
		m.t("UpdatedAt")
		m.raw("</th><th></th></tr>")
		for _, p := range d.Plans {
			m.raw("<tr><td><a")
			m.href("href", fmt.Sprintf("/plans/%d", p.ID))
			m.raw(">")
			m.text(p.Student)
			m.raw("</a></td><td>")
			m.text(p.Class)
			m.raw("</td><td>")
			m.text(p.UpdatedAt.Format("2006-01-02"))
			m.raw(`</td><td><form method="post"`)
			m.href("action", fmt.Sprintf("/plans/%d/delete", p.ID))
			m.raw(">")
			m.csrf()
			m.raw(`<button type="submit">`)
			m.t("Delete")
			m.raw("</button></form></td></tr>")
		}
		m.raw("</table>")
	}))
}

// PlanData feeds the plan editor.
type PlanData struct {
	Plan  model.IndividualPlan
	Error string
}

// PlanPage edits one individual plan.
func PlanPage(d PlanData) templ.Component {
	return page(d.Plan.Student, component(func(m *markup) {
		p := d.Plan
		m.raw("<h1>")
		m.t("IndividualPlan")
		m.raw("</h1>")
		m.errorBox(d.Error)
		m.raw(`<form method="post"`)
		m.href("action", "/plans")
		m.raw(">")
		m.csrf()
		m.raw("<p><label>")
		m.t("StudentName")
		m.raw(` <input name="student"`)
		m.attr("value", p.Student)
		m.raw(" required></label> <label>")
		m.t("Class")
		m.raw(` <input name="class"`)
		m.attr("value", p.Class)
		m.raw("></label></p>")
		for _, f := range []struct{ label, name, value string }{
			{"PlanProfile", "profile", p.Profile},
			{"PlanStrengths", "strengths", p.Strengths},
			{"PlanDeveloping", "developing", p.Developing},
			{"PlanSupports", "supports", p.Supports},
			{"PlanAccommodations", "accommodations", p.Accommodations},
		} {
			m.raw("<h3>")
			m.t(f.label)
			m.raw("</h3><textarea")
			m.attr("name", f.name)
			m.raw(">")
			m.text(f.value)
			m.raw("</textarea>")
		}
		m.raw(`<p><button type="submit">`)
		m.t("Save")
		m.raw("</button></p></form>")
	}))
}
