package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/devreport/internal/assess"
	"github.com/pavelanni/devreport/internal/handler/views"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc     *assess.Service
	store   *store.Store
	metrics *metrics.Metrics
	config  model.AppConfig
}

// New creates a new Handler.
func New(svc *assess.Service, s *store.Store, m *metrics.Metrics, cfg model.AppConfig) *Handler {
	return &Handler{svc: svc, store: s, metrics: m, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.metricsMiddleware)
	r.Use(appI18n.Middleware(h.cookiePath(), h.config.SecureCookies))

	r.Handle("/metrics", h.metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/logout", h.handleLogout)

			r.Get("/", h.handleForm)
			r.Post("/assess/preview", h.handlePreview)
			r.Post("/assess/save", h.handleSave)

			r.Get("/records", h.handleRecords)
			r.Route("/records/{recordID}", func(r chi.Router) {
				r.Get("/", h.handleRecord)
				r.Get("/edit", h.handleEditForm)
				r.Post("/edit", h.handleEdit)
				r.Post("/texts", h.handleUpdateTexts)
				r.Post("/delete", h.handleDelete)
				r.Get("/report.html", h.handleReportHTML)
				r.Get("/report.pdf", h.handleReportPDF)
				r.Get("/items.csv", h.handleItemsCSV)
				r.Get("/dimensions.csv", h.handleDimensionsCSV)
				r.Get("/radar.png", h.handleRadar)
			})

			r.Get("/plans", h.handlePlans)
			r.Get("/plans/new", h.handlePlanForm)
			r.Get("/plans/{planID}", h.handlePlanForm)
			r.Post("/plans", h.handleSavePlan)
			r.Post("/plans/{planID}/delete", h.handleDeletePlan)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.UserRoleCoordinator, model.UserRoleAdmin))
				r.Get("/consolidated", h.handleConsolidated)
				r.Get("/consolidated/{view}.csv", h.handleConsolidatedCSV)
				r.Get("/class-report", h.handleClassReport)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.UserRoleAdmin))
				r.Get("/admin/users", h.handleAdminUsersPage)
				r.Post("/admin/users", h.handleCreateUser)
				r.Post("/admin/users/{userID}/toggle", h.handleToggleUserActive)
				r.Get("/admin/settings", h.handleSettingsPage)
				r.Post("/admin/settings", h.handleSaveSettings)
			})
		})
	})
}

// BasePathMiddleware stores the configured URL prefix in the request context.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

// flashKeys are the notices a redirect may carry in its flash parameter.
var flashKeys = map[string]bool{
	"RecordSaved":   true,
	"RecordUpdated": true,
	"RecordDeleted": true,
	"TextsSaved":    true,
	"SettingsSaved": true,
	"PlanSaved":     true,
}

// redirect sends a See Other to p with an optional translated notice.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, p, flashKey string) {
	target := h.path(p)
	if flashKey != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "flash=" + url.QueryEscape(flashKey)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flash returns the translated notice carried by a redirect, if any.
func (h *Handler) flash(r *http.Request) string {
	key := r.URL.Query().Get("flash")
	if !flashKeys[key] {
		return ""
	}
	return appI18n.T(r.Context(), key)
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

// metricsMiddleware records count and latency per route pattern.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.ObserveHTTPRequest(r.Method, pattern, status, time.Since(start))
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	ctx := r.Context()
	if msg := h.flash(r); msg != "" {
		ctx = views.WithFlash(ctx, msg)
	}
	if err := c.Render(ctx, w); err != nil {
		slog.Error("render error", "path", r.URL.Path, "error", err)
	}
}

// fail maps service errors to HTTP status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, assess.ErrNoRecords):
		status, msg = http.StatusNotFound, appI18n.T(r.Context(), "NoRecordsForFilter")
	case errors.Is(err, assess.ErrMixedStages):
		status, msg = http.StatusBadRequest, appI18n.T(r.Context(), "MixedStages")
	case errors.Is(err, assess.ErrIncomplete), errors.Is(err, assess.ErrInvalid):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	http.Error(w, msg, status)
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// filterFromQuery reads a record filter from query parameters.
func filterFromQuery(q url.Values) model.RecordFilter {
	get := func(k string) string { return strings.TrimSpace(q.Get(k)) }
	return model.RecordFilter{
		Student:   get("student"),
		Evaluator: get("evaluator"),
		Class:     get("class"),
		School:    get("school"),
		Period:    get("period"),
		Stage:     get("stage"),
	}
}

func filterQuery(f model.RecordFilter) string {
	q := url.Values{}
	for k, v := range map[string]string{
		"student": f.Student, "evaluator": f.Evaluator, "class": f.Class,
		"school": f.School, "period": f.Period, "stage": f.Stage,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q.Encode()
}

func (h *Handler) filterData(r *http.Request, f model.RecordFilter) (views.FilterData, error) {
	opts, err := h.svc.FilterOptions(r.Context())
	if err != nil {
		return views.FilterData{}, err
	}
	options := make(map[string][]string, len(opts))
	for k, v := range opts {
		options[string(k)] = v
	}
	return views.FilterData{
		Filter:  f,
		Options: options,
		Query:   filterQuery(f),
	}, nil
}
