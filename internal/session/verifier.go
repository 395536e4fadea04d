package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dietcal/internal/identity"
	"dietcal/internal/platform/metrics"
)

// Verifier turns a carrier value into an authenticated user, or into a
// classified reason why not. Stateless; safe for concurrent use.
type Verifier struct {
	provider identity.Provider
	carrier  Carrier
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewVerifier(provider identity.Provider, carrier Carrier, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Verifier {
	return &Verifier{
		provider: provider,
		carrier:  carrier,
		timeout:  timeout,
		logger:   logger.With("component", "session.verifier"),
		metrics:  m,
	}
}

// Verify checks the request's session carrier.
//
// Self-healing: when verification fails and w is non-nil, the carrier is
// cleared so a future request does not resend a known-bad credential. Pure
// rendering contexts whose response headers are already finalized must pass
// w = nil; for them deletion is impossible at the platform level and cleanup
// falls to the nearest handler that can still mutate headers (the guard or
// the probe endpoint).
//
// An absent carrier is the fast path: no network call, no side effect.
func (v *Verifier) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) (*User, Reason) {
	value, ok := v.carrier.Read(r)
	if !ok {
		v.metrics.ProbeResults.WithLabelValues(string(ReasonNoCookie)).Inc()
		return nil, ReasonNoCookie
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	claims, err := v.provider.VerifySessionToken(ctx, value)
	if err != nil {
		reason := ReasonInvalidOrRevoked
		if errors.Is(err, identity.ErrTokenExpired) {
			reason = ReasonExpired
		}
		if w != nil {
			v.carrier.Clear(w)
			v.metrics.CarriersCleared.Inc()
		}
		v.metrics.ProbeResults.WithLabelValues(string(reason)).Inc()
		v.logger.WarnContext(ctx, "session verification failed",
			"reason", string(reason),
			"cleared", w != nil,
		)
		return nil, reason
	}

	v.metrics.ProbeResults.WithLabelValues(string(ReasonValid)).Inc()
	return userFromClaims(claims), ReasonValid
}
