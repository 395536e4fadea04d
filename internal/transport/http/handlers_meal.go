package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dietcal/internal/meal"
	"dietcal/internal/session"
	"dietcal/pkg/httperrors"
	"dietcal/pkg/sentinel"
)

// maxImageBytes caps meal photo uploads.
const maxImageBytes = 10 << 20

type mealHandler struct {
	meals  *meal.Service
	logger *slog.Logger
}

func newMealHandler(d Deps) *mealHandler {
	return &mealHandler{
		meals:  d.Meals,
		logger: d.Logger.With("component", "http.meal"),
	}
}

func (h *mealHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	meals, err := h.meals.List(r.Context(), user.UID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list meals failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to fetch meals")
		return
	}
	if meals == nil {
		meals = []meal.Meal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": meals})
}

// handleSave accepts a multipart form: a "meal" part holding the JSON record
// and an "image" part holding the photo.
func (h *mealHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	image, filename, contentType, ok := readImage(w, r)
	if !ok {
		return
	}

	var data meal.Data
	if raw := r.FormValue("meal"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			httperrors.Write(w, httperrors.CodeInvalidInput, "Invalid meal payload")
			return
		}
	}

	saved, err := h.meals.Save(r.Context(), user.UID, data, image, filename, contentType)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "save meal failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to save meal")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": saved})
}

func (h *mealHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	mealID := chi.URLParam(r, "id")

	err := h.meals.Delete(r.Context(), mealID, user.UID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		httperrors.Write(w, httperrors.CodeNotFound, "Meal not found")
	case errors.Is(err, meal.ErrForbidden):
		httperrors.Write(w, httperrors.CodeForbidden, "Meal does not belong to user")
	case err != nil:
		h.logger.ErrorContext(r.Context(), "delete meal failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to delete meal")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// handleAnalyze passes the photo through to the image-understanding API.
func (h *mealHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	image, _, contentType, ok := readImage(w, r)
	if !ok {
		return
	}

	analysis, err := h.meals.Analyze(r.Context(), image, contentType, r.FormValue("description"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed", "error", err)
		httperrors.Write(w, httperrors.CodeInternal, "Failed to analyze image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": analysis})
}

func (h *mealHandler) handleLabels(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	labels, err := h.meals.UserLabels(r.Context(), user.UID)
	if err != nil {
		httperrors.Write(w, httperrors.CodeInternal, "Failed to fetch user labels")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": labels})
}

func (h *mealHandler) handleMergeLabels(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())

	var req struct {
		Labels []string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.Write(w, httperrors.CodeInvalidRequest, "Invalid request body")
		return
	}

	merged, err := h.meals.MergeLabels(r.Context(), user.UID, req.Labels)
	if err != nil {
		httperrors.Write(w, httperrors.CodeInternal, "Failed to update user labels")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": merged})
}

// readImage extracts the uploaded photo from the multipart form. Writes the
// error response itself and reports ok=false when the upload is unusable.
func readImage(w http.ResponseWriter, r *http.Request) (data []byte, filename, contentType string, ok bool) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		httperrors.Write(w, httperrors.CodeInvalidRequest, "Invalid multipart form")
		return nil, "", "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httperrors.Write(w, httperrors.CodeInvalidInput, "No image provided")
		return nil, "", "", false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil || len(data) == 0 {
		httperrors.Write(w, httperrors.CodeInvalidInput, "No image provided")
		return nil, "", "", false
	}

	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, header.Filename, contentType, true
}
