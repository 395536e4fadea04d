package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietcal/internal/identity/revocation"
)

const testKey = "test-signing-key"

func newTestService(revocations RevocationList) *TokenService {
	return NewTokenService(testKey, "dietcal-test", revocations)
}

func TestTokenService_IDTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	authTime := time.Now().Add(-10 * time.Second)
	idToken, err := svc.MintIDToken("u1", "u1@example.com", "Uma", "https://img.example/u1.png", authTime)
	require.NoError(t, err)

	claims, err := svc.VerifyIDToken(ctx, idToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, "Uma", claims.Name)
	assert.Equal(t, "https://img.example/u1.png", claims.Picture)
	assert.WithinDuration(t, authTime, claims.AuthTime, time.Second)
}

func TestTokenService_SessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	idToken, err := svc.MintIDToken("u1", "u1@example.com", "Uma", "", time.Now())
	require.NoError(t, err)

	session, err := svc.MintSessionToken(ctx, idToken, 120*time.Hour)
	require.NoError(t, err)

	claims, err := svc.VerifySessionToken(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(120*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestTokenService_IDTokenIsNotASessionToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	idToken, err := svc.MintIDToken("u1", "", "", "", time.Now())
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(ctx, idToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_ExpiredSessionToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	issued := time.Now().Add(-10 * 24 * time.Hour)
	svc.now = func() time.Time { return issued }

	idToken, err := svc.MintIDToken("u1", "", "", "", issued)
	require.NoError(t, err)
	session, err := svc.MintSessionToken(ctx, idToken, 120*time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifySessionToken(ctx, session)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_TamperedToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	idToken, err := svc.MintIDToken("u1", "", "", "", time.Now())
	require.NoError(t, err)
	session, err := svc.MintSessionToken(ctx, idToken, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(ctx, session[:len(session)-2]+"xx")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_WrongKeyFailsVerification(t *testing.T) {
	ctx := context.Background()
	minter := NewTokenService("other-key", "dietcal-test", nil)
	svc := newTestService(nil)

	idToken, err := minter.MintIDToken("u1", "", "", "", time.Now())
	require.NoError(t, err)

	_, err = svc.VerifyIDToken(ctx, idToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RevokedSessionToken(t *testing.T) {
	ctx := context.Background()
	list := revocation.NewMemory()
	svc := newTestService(list)

	idToken, err := svc.MintIDToken("u1", "", "", "", time.Now())
	require.NoError(t, err)
	session, err := svc.MintSessionToken(ctx, idToken, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(ctx, session)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSessionToken(ctx, session))

	_, err = svc.VerifySessionToken(ctx, session)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestTokenService_RevokeExpiredIsNoop(t *testing.T) {
	ctx := context.Background()
	list := revocation.NewMemory()
	svc := newTestService(list)

	assert.NoError(t, svc.RevokeSessionToken(ctx, "not-a-token"))
}

func TestInit_SecondCallReports(t *testing.T) {
	svc := newTestService(nil)
	// Init may already have run in another test of this package; either way
	// the second of two back-to-back calls must refuse.
	_ = Init(svc)
	err := Init(svc)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.NotNil(t, Default())
}
