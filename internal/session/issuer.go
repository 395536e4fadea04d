package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dietcal/internal/identity"
	"dietcal/internal/platform/metrics"
)

// Issuer exchanges a fresh identity credential for a session credential and
// persists it in the carrier. Stateless; safe for concurrent use.
type Issuer struct {
	provider identity.Provider
	carrier  Carrier
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewIssuer(provider identity.Provider, carrier Carrier, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Issuer {
	return &Issuer{
		provider: provider,
		carrier:  carrier,
		timeout:  timeout,
		logger:   logger.With("component", "session.issuer"),
		metrics:  m,
		now:      time.Now,
	}
}

// Issue verifies the identity credential, enforces the recency window, mints
// a session credential valid for TTL and writes it to the carrier.
//
// Side-effect contract: at most one carrier write or one carrier clear per
// call. Rejections before minting leave the carrier untouched; a mint
// failure after verification succeeded clears it before the error surfaces,
// so no half-initialized session state persists.
func (i *Issuer) Issue(ctx context.Context, w http.ResponseWriter, idToken string) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	claims, err := i.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		i.logger.WarnContext(ctx, "identity credential rejected", "error", err)
		i.metrics.ExchangeFailures.WithLabelValues("invalid_credential").Inc()
		return ErrInvalidCredential
	}

	if i.now().Sub(claims.AuthTime) > RecencyWindow {
		i.logger.WarnContext(ctx, "identity credential outside recency window",
			"auth_time", claims.AuthTime,
		)
		i.metrics.ExchangeFailures.WithLabelValues("stale_credential").Inc()
		return ErrStaleCredential
	}

	value, err := i.provider.MintSessionToken(ctx, idToken, TTL)
	if err != nil {
		// Verification succeeded but minting did not: roll the carrier
		// back so the client is not left with partial session state.
		i.carrier.Clear(w)
		i.logger.ErrorContext(ctx, "session mint failed", "error", err)
		i.metrics.ExchangeFailures.WithLabelValues("issuance").Inc()
		return fmt.Errorf("%w: %v", ErrIssuance, err)
	}

	i.carrier.Write(w, value)
	i.metrics.SessionsIssued.Inc()
	i.logger.InfoContext(ctx, "session issued", "subject", claims.Subject)
	return nil
}
