package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pavelanni/devreport/internal/assess"
	"github.com/pavelanni/devreport/internal/handler/views"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/narrative"
	"github.com/pavelanni/devreport/internal/report"
)

const levelPrefix = "level_"

// parseSubmission reads a rating form. Unparseable levels are dropped so
// the item shows up as missing.
func parseSubmission(r *http.Request) assess.Submission {
	_ = r.ParseForm()
	sub := assess.Submission{
		Stage: r.PostFormValue("stage"),
		Subject: assess.Subject{
			Name:      r.PostFormValue("name"),
			Age:       r.PostFormValue("age"),
			Sex:       r.PostFormValue("sex"),
			Class:     r.PostFormValue("class"),
			Period:    r.PostFormValue("period"),
			Evaluator: r.PostFormValue("evaluator"),
		},
		Levels:   make(map[string]model.Level),
		Language: appI18n.Lang(r.Context()),
	}
	for key, vals := range r.PostForm {
		code, ok := strings.CutPrefix(key, levelPrefix)
		if !ok || len(vals) == 0 {
			continue
		}
		v, err := strconv.Atoi(vals[0])
		if err != nil {
			continue
		}
		sub.Levels[code] = model.Level(v)
	}
	return sub
}

func (h *Handler) formData(r *http.Request, in *model.Instrument) views.FormData {
	return views.FormData{
		Instrument: in,
		Stages:     h.svc.Instruments().Stages(),
		Levels:     map[string]model.Level{},
		Alt:        narrative.Portuguese(appI18n.Lang(r.Context())),
		Action:     "/assess/preview",
	}
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	reg := h.svc.Instruments()
	stage := r.URL.Query().Get("stage")
	if stage == "" {
		if stages := reg.Stages(); len(stages) > 0 {
			stage = stages[0]
		}
	}
	in, err := reg.Lookup(stage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	d := h.formData(r, in)
	if user := model.UserFromContext(r.Context()); user != nil && user.Role == model.UserRoleEvaluator {
		d.Sub.Evaluator = user.DisplayName
	}
	d.Sub.Period = h.svc.DefaultPeriod(r.Context())
	h.render(w, r, http.StatusOK, views.FormPage(d))
}

// formError re-renders the form with the submitted values and the reason it
// was rejected.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, sub assess.Submission, recordID int64, err error) {
	in, lerr := h.svc.Instruments().Lookup(sub.Stage)
	if lerr != nil {
		h.fail(w, r, err)
		return
	}
	d := h.formData(r, in)
	d.Sub = sub.Subject
	d.Levels = sub.Levels
	if recordID > 0 {
		d.RecordID = recordID
		d.Action = fmt.Sprintf("/records/%d/edit", recordID)
	}
	if errors.Is(err, assess.ErrIncomplete) {
		d.Error = appI18n.T(r.Context(), "IncompleteForm")
	} else {
		d.Error = appI18n.Td(r.Context(), "InvalidForm", map[string]any{"Detail": err.Error()})
	}
	h.render(w, r, http.StatusUnprocessableEntity, views.FormPage(d))
}

func isFormError(err error) bool {
	return errors.Is(err, assess.ErrIncomplete) || errors.Is(err, assess.ErrInvalid)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	sub := parseSubmission(r)
	d, err := h.svc.Preview(r.Context(), sub)
	if isFormError(err) {
		h.formError(w, r, sub, 0, err)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	radar, err := report.Radar(d.Scores, d.Instrument.Scale, "")
	if err != nil {
		slog.Warn("preview radar", "error", err)
	}
	h.render(w, r, http.StatusOK, views.PreviewPage(views.PreviewData{Draft: d, Radar: radar}))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	sub := parseSubmission(r)
	d, err := h.svc.Score(sub)
	if isFormError(err) {
		h.formError(w, r, sub, 0, err)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d.Strategy = h.svc.Strategy()
	rec, err := h.svc.Save(r.Context(), d, &assess.Texts{
		Report:      r.PostFormValue("report"),
		Suggestions: r.PostFormValue("suggestions"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, fmt.Sprintf("/records/%d", rec.ID), "RecordSaved")
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r.URL.Query())
	records, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fd, err := h.filterData(r, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.RecordsPage(views.RecordsData{FilterData: fd, Records: records}))
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := idParam(r, "recordID")
	if !ok {
		http.Error(w, "invalid record ID", http.StatusBadRequest)
	}
	return id, ok
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec := doc.Record
	h.render(w, r, http.StatusOK, views.RecordPage(views.RecordData{Record: &rec, Items: doc.Items}))
}

func (h *Handler) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.svc.Instruments().Lookup(rec.Stage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	d := h.formData(r, in)
	d.Sub = assess.SubjectOf(rec.Subject)
	for _, resp := range rec.Responses {
		d.Levels[resp.ItemCode] = resp.Level
	}
	d.RecordID = id
	d.Action = fmt.Sprintf("/records/%d/edit", id)
	h.render(w, r, http.StatusOK, views.FormPage(d))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	sub := parseSubmission(r)

	var texts *assess.Texts
	if r.PostFormValue("regenerate") == "" {
		existing, err := h.svc.Get(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		texts = &assess.Texts{Report: existing.Report, Suggestions: existing.Suggestions}
	}

	_, err := h.svc.Edit(r.Context(), id, sub, texts)
	if isFormError(err) {
		h.formError(w, r, sub, id, err)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, fmt.Sprintf("/records/%d", id), "RecordUpdated")
}

func (h *Handler) handleUpdateTexts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	err := h.svc.UpdateTexts(r.Context(), id, assess.Texts{
		Report:      r.FormValue("report"),
		Suggestions: r.FormValue("suggestions"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, fmt.Sprintf("/records/%d", id), "TextsSaved")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/records", "RecordDeleted")
}
