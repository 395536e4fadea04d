// Package identity abstracts the external identity provider: the service
// that issues short-lived identity credentials at sign-in and mints the
// long-lived session credentials this application carries in its cookie.
//
// Session credentials are opaque to the rest of the codebase. They are only
// ever produced by Provider.MintSessionToken and only ever interpreted by
// Provider.VerifySessionToken; nothing else constructs or inspects one.
package identity

import (
	"context"
	"errors"
	"time"
)

// Claims is the verified, explicitly-typed projection of a credential.
// Subject is the only required field; everything else defaults downstream.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string

	IssuedAt  time.Time
	ExpiresAt time.Time

	// AuthTime is when the underlying sign-in happened. Session exchange
	// enforces a recency window against it, so a replayed identity
	// credential cannot mint a fresh five-day session.
	AuthTime time.Time
}

// Verification failures. Callers collapse all of these to "unauthenticated";
// the distinction only feeds reason codes and logs.
var (
	ErrTokenExpired = errors.New("credential expired")
	ErrTokenInvalid = errors.New("credential invalid")
	ErrTokenRevoked = errors.New("credential revoked")
)

// Provider is the identity provider contract. Implementations are
// constructed once per process and are safe for concurrent use; verify and
// mint calls carry no client-side mutable state.
type Provider interface {
	// VerifyIDToken checks a short-lived identity credential and returns
	// its claims.
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)

	// MintSessionToken exchanges a verified identity credential for an
	// opaque session credential valid for ttl.
	MintSessionToken(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// VerifySessionToken checks a session credential, including whether it
	// has been revoked since minting.
	VerifySessionToken(ctx context.Context, value string) (*Claims, error)
}

// RevocationList tracks revoked session credentials by their jti.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
