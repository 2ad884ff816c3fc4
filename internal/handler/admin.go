package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/devreport/internal/handler/views"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/model"
)

func (h *Handler) handleAdminUsersPage(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, http.StatusOK, "")
}

func (h *Handler) renderUsers(w http.ResponseWriter, r *http.Request, status int, msg string) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, status, views.AdminUsersPage(users, msg))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	role := model.UserRole(r.FormValue("role"))

	if username == "" || password == "" {
		http.Error(w, "username and password required", http.StatusBadRequest)
		return
	}
	switch role {
	case model.UserRoleEvaluator, model.UserRoleCoordinator, model.UserRoleAdmin:
	default:
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if displayName == "" {
		displayName = username
	}

	_, err = h.store.CreateUser(r.Context(), model.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	})
	if err != nil {
		slog.Error("failed to create user", "username", username, "error", err)
		h.renderUsers(w, r, http.StatusConflict, err.Error())
		return
	}
	slog.Info("user created", "username", username, "role", role)
	h.renderUsers(w, r, http.StatusOK,
		appI18n.Td(r.Context(), "UserCreated", map[string]any{"Username": username}))
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if err := h.store.ToggleUserActive(r.Context(), id); err != nil {
		slog.Error("failed to toggle user active", "id", id, "error", err)
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}

func (h *Handler) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	ss, err := h.store.GetSchoolSettings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.SettingsPage(ss, h.svc.Strategy(), ""))
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ss := model.SchoolSettings{
		School: strings.TrimSpace(r.FormValue("school")),
		Period: strings.TrimSpace(r.FormValue("period")),
	}
	if err := h.store.SetSchoolSettings(r.Context(), ss); err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("school settings saved", "school", ss.School, "period", ss.Period)
	h.redirect(w, r, "/admin/settings", "SettingsSaved")
}
