package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/devreport/internal/handler/views"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/report"
)

// send writes a generated artifact. A non-empty filename makes it a download.
func send(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	_, _ = w.Write(data)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) (*report.Document, bool) {
	id, ok := h.recordID(w, r)
	if !ok {
		return nil, false
	}
	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return doc, true
}

func downloadName(doc *report.Document, suffix string) string {
	return report.FileBase(doc.Record.Name, doc.GeneratedAt) + suffix
}

func (h *Handler) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	data, err := report.HTML(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "text/html; charset=utf-8", "", data)
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	data, err := report.PDF(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "application/pdf", downloadName(doc, ".pdf"), data)
}

func (h *Handler) handleItemsCSV(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	data, err := report.ItemsCSV(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "text/csv; charset=utf-8", downloadName(doc, "_items.csv"), data)
}

func (h *Handler) handleDimensionsCSV(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	var in *model.Instrument
	if found, err := h.svc.Instruments().Lookup(doc.Record.Stage); err == nil {
		in = found
	}
	data, err := report.DimensionsCSV(doc.Record, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "text/csv; charset=utf-8", downloadName(doc, "_dimensions.csv"), data)
}

func (h *Handler) handleRadar(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	send(w, "image/png", "", doc.Radar)
}

func (h *Handler) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r.URL.Query())
	c, err := h.svc.Consolidate(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fd, err := h.filterData(r, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := views.ConsolidatedData{FilterData: fd, C: c}
	if c.Records == 0 {
		d.Error = appI18n.T(r.Context(), "NoRecordsForFilter")
	}
	h.render(w, r, http.StatusOK, views.ConsolidatedPage(d))
}

func (h *Handler) handleConsolidatedCSV(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Consolidate(r.Context(), filterFromQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view := chi.URLParam(r, "view")
	var (
		header string
		rows   []model.GroupMean
	)
	switch view {
	case "class":
		header, rows = "class", c.ByClass
	case "evaluator":
		header, rows = "evaluator", c.ByEvaluator
	case "dimension":
		header, rows = "dimension", c.DimensionRows()
	default:
		http.NotFound(w, r)
		return
	}
	data, err := report.ConsolidatedCSV(header, rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "text/csv; charset=utf-8", "mean_by_"+view+".csv", data)
}

func (h *Handler) handleClassReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.ClassReport(r.Context(), filterFromQuery(r.URL.Query()), appI18n.Lang(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := report.ClassHTML(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	send(w, "text/html; charset=utf-8", "", data)
}
