// Package views renders the HTML pages of the web shell as templ
// components. Every page is a body component rendered as the child of
// Layout, which draws the document shell and the navigation bar.
package views

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
)

// markup writes the HTML of one component. The first write error sticks and
// later writes are skipped, so component bodies read top to bottom.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

// raw writes trusted markup as is.
func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) rawf(format string, args ...any) {
	m.raw(fmt.Sprintf(format, args...))
}

// text writes escaped text content.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// t writes a translated message.
func (m *markup) t(id string) {
	m.text(appI18n.T(m.ctx, id))
}

// attr writes ` name="value"` with value escaped.
func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes an href attribute for an application path, prefixed with the
// base path and sanitized.
func (m *markup) href(name, p string) {
	u := templ.URL(model.BasePathFromContext(m.ctx) + p)
	m.attr(name, string(u))
}

// selected writes the selected flag when ok.
func (m *markup) selected(ok bool) {
	if ok {
		m.raw(" selected")
	}
}

func (m *markup) checked(ok bool) {
	if ok {
		m.raw(" checked")
	}
}

// errorBox writes msg in an error paragraph when it is set.
func (m *markup) errorBox(msg string) {
	if msg != "" {
		m.raw(`<p class="error">`)
		m.text(msg)
		m.raw("</p>")
	}
}

func (m *markup) notice(msg string) {
	if msg != "" {
		m.raw(`<p class="notice">`)
		m.text(msg)
		m.raw("</p>")
	}
}

// csrf writes the hidden token field of the double-submit check.
func (m *markup) csrf() {
	m.raw(`<input type="hidden" name="csrf_token"`)
	m.attr("value", model.CSRFTokenFromContext(m.ctx))
	m.raw(">")
}

// render writes a nested component.
func (m *markup) render(c templ.Component) {
	if m.err == nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

// component adapts a body writer to templ.Component.
func component(body func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		body(m)
		return m.err
	})
}

// page renders body as the child of Layout.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Layout(title).Render(templ.WithChildren(ctx, body), w)
	})
}

const styles = `body { font-family: Arial, Helvetica, sans-serif; color: #333333; margin: 0; }
nav { background: #E2231A; padding: 0.6em 1.2em; }
nav a, nav button { color: #ffffff; margin-right: 1.2em; text-decoration: none; background: none; border: none; font: inherit; cursor: pointer; }
nav form { display: inline; }
nav .right { float: right; }
main { padding: 1.2em 2em; max-width: 1100px; }
h1, h2, h3 { color: #E2231A; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #cccccc; padding: 4px 8px; text-align: left; vertical-align: top; font-size: 14px; }
fieldset { border: 1px solid #dddddd; margin-bottom: 1em; }
label { display: inline-block; margin: 0.2em 0.8em 0.2em 0; }
textarea { width: 100%; min-height: 14em; font-family: inherit; }
.error { background: #fde8e7; border: 1px solid #E2231A; padding: 0.6em; }
.notice { background: #eef6ee; border: 1px solid #6a6; padding: 0.6em; }
.badge { font-size: 12px; background: #333333; color: #ffffff; padding: 2px 6px; border-radius: 3px; }
.actions form { display: inline; }`

// Layout draws the document shell around the child component: head,
// navigation for the signed-in user and the flash notice.
func Layout(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		if children == nil {
			children = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)

		m := newMarkup(ctx, w)
		m.raw("<!DOCTYPE html>\n<html")
		m.attr("lang", appI18n.Lang(ctx))
		m.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if title != "" {
			m.text(title)
			m.raw(" · ")
		}
		m.t("AppTitle")
		m.raw("</title><style>\n" + styles + "\n</style></head><body>")
		if user := model.UserFromContext(ctx); user != nil {
			nav(m, user)
		}
		m.raw("<main>")
		m.notice(flashFromContext(ctx))
		m.render(children)
		m.raw("</main></body></html>")
		return m.err
	})
}

func nav(m *markup, user *model.User) {
	link := func(p, id string) {
		m.raw("<a")
		m.href("href", p)
		m.raw(">")
		m.t(id)
		m.raw("</a>")
	}
	m.raw("<nav>")
	link("/", "NavNewAssessment")
	link("/records", "NavRecords")
	link("/plans", "NavPlans")
	if user.Role == model.UserRoleAdmin || user.Role == model.UserRoleCoordinator {
		link("/consolidated", "NavConsolidated")
	}
	if user.Role == model.UserRoleAdmin {
		link("/admin/users", "NavUsers")
		link("/admin/settings", "NavSettings")
	}
	m.raw(`<span class="right">`)
	for _, lang := range appI18n.Languages() {
		m.raw("<a")
		m.attr("href", string(templ.URL("?lang="+lang)))
		m.raw(">")
		m.text(lang)
		m.raw("</a>")
	}
	m.text(user.DisplayName)
	m.raw(`<form method="post"`)
	m.href("action", "/logout")
	m.raw(">")
	m.csrf()
	m.raw(`<button type="submit">`)
	m.t("Logout")
	m.raw("</button></form></span></nav>")
}

// dataURI inlines an image for an img src. Empty input yields "".
func dataURI(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "data:" + http.DetectContentType(b) + ";base64," + base64.StdEncoding.EncodeToString(b)
}

type flashKey struct{}

// WithFlash attaches a one-off notice shown at the top of the next page.
func WithFlash(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, flashKey{}, msg)
}

func flashFromContext(ctx context.Context) string {
	s, _ := ctx.Value(flashKey{}).(string)
	return s
}
