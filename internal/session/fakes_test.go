package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dietcal/internal/identity"
	"dietcal/internal/platform/metrics"
)

// fakeProvider scripts the identity provider per test.
type fakeProvider struct {
	verifyIDFn      func(idToken string) (*identity.Claims, error)
	mintFn          func(idToken string, ttl time.Duration) (string, error)
	verifySessionFn func(value string) (*identity.Claims, error)
}

func (f *fakeProvider) VerifyIDToken(_ context.Context, idToken string) (*identity.Claims, error) {
	return f.verifyIDFn(idToken)
}

func (f *fakeProvider) MintSessionToken(_ context.Context, idToken string, ttl time.Duration) (string, error) {
	return f.mintFn(idToken, ttl)
}

func (f *fakeProvider) VerifySessionToken(_ context.Context, value string) (*identity.Claims, error) {
	return f.verifySessionFn(value)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func freshClaims(subject string) *identity.Claims {
	now := time.Now()
	return &identity.Claims{
		Subject:   subject,
		Email:     subject + "@example.com",
		Name:      "Uma",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		AuthTime:  now.Add(-10 * time.Second),
	}
}
