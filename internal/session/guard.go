package session

import (
	"log/slog"
	"net/http"
	"strings"

	"dietcal/internal/platform/metrics"
)

// RouteClass is the per-request path classification feeding the guard's
// decision table. It has no lifecycle beyond the request.
type RouteClass int

const (
	RouteOther RouteClass = iota
	RouteProtected
	RouteLogin
)

// Guard is the per-request gate that runs before any page handler. It is a
// pure function of (path classification, carrier state); no instance state
// persists between requests.
//
// Decision table:
//
//	Protected + no carrier   -> redirect to login (terminal)
//	Protected + carrier      -> allow; full verification stays with the handler
//	Login page               -> redirect home only on a VERIFIED session
//	Other                    -> allow
//
// The login branch deliberately never trusts bare cookie presence: a present
// but expired carrier would bounce login -> dashboard -> login forever. The
// protected branch may use presence as a cheap reject because absence is a
// reliable negative signal, and deferring the verification call keeps static
// assets and every other matched request off the identity provider.
type Guard struct {
	verifier  *Verifier
	carrier   Carrier
	protected []string
	loginPath string
	homePath  string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewGuard(verifier *Verifier, carrier Carrier, protected []string, loginPath, homePath string, logger *slog.Logger, m *metrics.Metrics) *Guard {
	return &Guard{
		verifier:  verifier,
		carrier:   carrier,
		protected: protected,
		loginPath: loginPath,
		homePath:  homePath,
		logger:    logger.With("component", "session.guard"),
		metrics:   m,
	}
}

// Classify maps a request path onto the guard's decision branches.
func (g *Guard) Classify(path string) RouteClass {
	if path == g.loginPath {
		return RouteLogin
	}
	for _, prefix := range g.protected {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return RouteProtected
		}
	}
	return RouteOther
}

// Middleware applies the decision table once per inbound request.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.Classify(r.URL.Path) {
		case RouteProtected:
			if _, ok := g.carrier.Read(r); !ok {
				g.metrics.GuardDecisions.WithLabelValues("redirect_login").Inc()
				http.Redirect(w, r, g.loginPath, http.StatusFound)
				return
			}
			g.metrics.GuardDecisions.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r)

		case RouteLogin:
			// Full verification, not presence: the one place where
			// mistaking presence for validity creates a redirect loop.
			// A failed check also clears the stale carrier here, while
			// headers are still mutable.
			if user, reason := g.verifier.Verify(r.Context(), w, r); user != nil {
				g.metrics.GuardDecisions.WithLabelValues("redirect_home").Inc()
				http.Redirect(w, r, g.homePath, http.StatusFound)
				return
			} else if reason != ReasonNoCookie {
				g.logger.InfoContext(r.Context(), "stale session on login page", "reason", string(reason))
			}
			g.metrics.GuardDecisions.WithLabelValues("allow").Inc()
			next.ServeHTTP(w, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}
