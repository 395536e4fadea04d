package session

import "errors"

// Exchange-time failures. Verification-time failures never surface as
// errors; they collapse to an unauthenticated result plus a Reason.
var (
	// ErrInvalidCredential: the identity credential failed verification.
	ErrInvalidCredential = errors.New("identity credential rejected")

	// ErrStaleCredential: the identity credential's sign-in is older than
	// the recency window; a fresh sign-in is required before exchange.
	ErrStaleCredential = errors.New("recent sign-in required")

	// ErrIssuance: minting or persisting the session failed after the
	// identity credential verified. The carrier has been rolled back.
	ErrIssuance = errors.New("session issuance failed")
)

// Reason classifies a verification outcome for observability. The strings
// are part of the probe endpoint's contract.
type Reason string

const (
	ReasonNoCookie         Reason = "no-cookie"
	ReasonValid            Reason = "valid"
	ReasonExpired          Reason = "expired"
	ReasonInvalidOrRevoked Reason = "invalid-or-revoked"
)
