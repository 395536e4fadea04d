package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"dietcal/internal/session"
	"dietcal/internal/settings"
	"dietcal/pkg/httperrors"
)

type settingsHandler struct {
	store  settings.Store
	logger *slog.Logger
}

func newSettingsHandler(d Deps) *settingsHandler {
	return &settingsHandler{
		store:  d.Settings,
		logger: d.Logger.With("component", "http.settings"),
	}
}

func (h *settingsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	got, err := h.store.Get(r.Context(), user.UID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get settings failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to fetch user settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": got})
}

func (h *settingsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	var update settings.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httperrors.Write(w, httperrors.CodeInvalidRequest, "Invalid request body")
		return
	}
	if update.DailyCalorieGoal != nil && *update.DailyCalorieGoal <= 0 {
		httperrors.Write(w, httperrors.CodeInvalidInput, "dailyCalorieGoal must be positive")
		return
	}

	updated, err := h.store.Apply(r.Context(), user.UID, update)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update settings failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to update user settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
}
