package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"dietcal/pkg/httperrors"
)

// RequireSession gates API routes on a fully verified session and injects
// the authenticated user into the request context. Unlike the page guard,
// API callers get a 401 envelope instead of a redirect.
func RequireSession(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, reason := verifier.Verify(r.Context(), w, r)
			if user == nil {
				logger.WarnContext(r.Context(), "unauthorized api access",
					"reason", string(reason),
					"request_id", middleware.GetReqID(r.Context()),
				)
				httperrors.Write(w, httperrors.CodeUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
