package httptransport

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"dietcal/internal/session"
)

// pageHandler serves the minimal HTML shells. The real UI is a client-side
// bundle; these handlers exist so the route guard has pages to gate and the
// protected branch has a place to run its full verification.
type pageHandler struct {
	verifier *session.Verifier
	logger   *slog.Logger
}

func newPageHandler(d Deps) *pageHandler {
	return &pageHandler{
		verifier: d.Verifier,
		logger:   d.Logger.With("component", "http.pages"),
	}
}

func (h *pageHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	// The guard classifies "/" as Other; the dashboard redirect path takes
	// care of sorting signed-in from signed-out visitors.
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *pageHandler) handleLogin(w http.ResponseWriter, _ *http.Request) {
	// The guard has already sent verified-valid sessions to the dashboard
	// and cleared any stale carrier; everyone arriving here is signed out.
	writePage(w, "Sign in", `<h1>DietCal</h1><p>Sign in to continue.</p>`)
}

// requireUser runs the full verification the guard deferred. The guard only
// checked presence; an invalid carrier still reaches these handlers and gets
// bounced (and cleared) here, where headers are still mutable.
func (h *pageHandler) requireUser(w http.ResponseWriter, r *http.Request) (*session.User, bool) {
	user, _ := h.verifier.Verify(r.Context(), w, r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}
	return user, true
}

func (h *pageHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writePage(w, "Dashboard", fmt.Sprintf(`<h1>Today</h1><p>Signed in as %s.</p>`, html.EscapeString(user.Name)))
}

func (h *pageHandler) handleUploadMeal(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	writePage(w, "Log a meal", `<h1>Log a meal</h1>`)
}

func (h *pageHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	writePage(w, "Progress", `<h1>Progress</h1>`)
}

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body>%s</body></html>", html.EscapeString(title), body)
}
