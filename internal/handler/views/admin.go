package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/pavelanni/devreport/internal/model"
)

// AdminUsersPage lists accounts with a creation form.
func AdminUsersPage(users []model.User, message string) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("NavUsers")
		m.raw("</h1>")
		m.notice(message)
		m.raw("<table><tr>")
		for _, h := range []string{"Username", "DisplayName", "Role", "Active"} {
			m.raw("<th>")
			m.t(h)
			m.raw("</th>")
		}
		m.raw("<th></th></tr>")
		for _, u := range users {
			m.raw("<tr><td>")
			m.text(u.Username)
			m.raw("</td><td>")
			m.text(u.DisplayName)
			m.raw("</td><td>")
			m.text(string(u.Role))
			m.raw("</td><td>")
			if u.Active {
				m.raw("✓")
			}
			m.raw(`</td><td><form method="post"`)
			m.href("action", fmt.Sprintf("/admin/users/%d/toggle", u.ID))
			m.raw(">")
			m.csrf()
			m.raw(`<button type="submit">`)
			if u.Active {
				m.t("Deactivate")
			} else {
				m.t("Activate")
			}
			m.raw("</button></form></td></tr>")
		}
		m.raw("</table>")

		m.raw("<h2>")
		m.t("CreateUser")
		m.raw(`</h2><form method="post"`)
		m.href("action", "/admin/users")
		m.raw(">")
		m.csrf()
		m.raw("<label>")
		m.t("Username")
		m.raw(` <input name="username" required></label> <label>`)
		m.t("DisplayName")
		m.raw(` <input name="display_name"></label> <label>`)
		m.t("Password")
		m.raw(` <input name="password" type="password" required></label> <label>`)
		m.t("Role")
		m.raw(` <select name="role">`)
		for _, r := range []model.UserRole{model.UserRoleEvaluator, model.UserRoleCoordinator, model.UserRoleAdmin} {
			m.raw("<option")
			m.attr("value", string(r))
			m.raw(">")
			m.text(string(r))
			m.raw("</option>")
		}
		m.raw(`</select></label> <button type="submit">`)
		m.t("Create")
		m.raw("</button></form>")
	}))
}

// SettingsPage edits the runtime school settings.
func SettingsPage(ss model.SchoolSettings, strategy, message string) templ.Component {
	return page("", component(func(m *markup) {
		m.raw("<h1>")
		m.t("NavSettings")
		m.raw("</h1>")
		m.notice(message)
		m.raw(`<form method="post"`)
		m.href("action", "/admin/settings")
		m.raw(">")
		m.csrf()
		m.raw("<p><label>")
		m.t("School")
		m.raw(` <input name="school"`)
		m.attr("value", ss.School)
		m.raw("></label></p><p><label>")
		m.t("DefaultPeriod")
		m.raw(` <input name="period"`)
		m.attr("value", ss.Period)
		m.raw("></label></p><p>")
		m.t("NarrativeStrategy")
		m.raw(`: <span class="badge">`)
		m.text(strategy)
		m.raw(`</span></p><p><button type="submit">`)
		m.t("Save")
		m.raw("</button></p></form>")
	}))
}
