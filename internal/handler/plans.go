package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/pavelanni/devreport/internal/assess"
	"github.com/pavelanni/devreport/internal/handler/views"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
)

func (h *Handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	class := strings.TrimSpace(r.URL.Query().Get("class"))
	plans, err := h.svc.Plans(r.Context(), class)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PlansPage(views.PlansData{Class: class, Plans: plans}))
}

// handlePlanForm opens a plan by ID, or a blank one prefilled from the
// student and class query parameters.
func (h *Handler) handlePlanForm(w http.ResponseWriter, r *http.Request) {
	var plan model.IndividualPlan
	if id, ok := idParam(r, "planID"); ok {
		p, err := h.svc.PlanByID(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		plan = *p
	} else {
		q := r.URL.Query()
		plan.Student, plan.Class = q.Get("student"), q.Get("class")
		if plan.Student != "" {
			p, err := h.svc.Plan(r.Context(), plan.Student, plan.Class)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			if p != nil {
				plan = *p
			}
		}
	}
	h.render(w, r, http.StatusOK, views.PlanPage(views.PlanData{Plan: plan}))
}

func (h *Handler) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	plan := model.IndividualPlan{
		Student:        r.FormValue("student"),
		Class:          r.FormValue("class"),
		Profile:        r.FormValue("profile"),
		Strengths:      r.FormValue("strengths"),
		Developing:     r.FormValue("developing"),
		Supports:       r.FormValue("supports"),
		Accommodations: r.FormValue("accommodations"),
	}
	_, err := h.svc.SavePlan(r.Context(), &plan)
	if errors.Is(err, assess.ErrInvalid) {
		h.render(w, r, http.StatusUnprocessableEntity, views.PlanPage(views.PlanData{
			Plan:  plan,
			Error: appI18n.Td(r.Context(), "InvalidForm", map[string]any{"Detail": err.Error()}),
		}))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/plans?class="+url.QueryEscape(plan.Class), "PlanSaved")
}

func (h *Handler) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "planID")
	if !ok {
		http.Error(w, "invalid plan ID", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeletePlan(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, h.path("/plans"), http.StatusSeeOther)
}
