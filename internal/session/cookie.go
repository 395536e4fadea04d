package session

import (
	"net/http"
	"time"
)

// CookieName is the fixed name of the credential carrier.
const CookieName = "session"

// TTL is the single source of truth for session lifetime. The minted
// credential's validity and the cookie's MaxAge both derive from it; nothing
// else in the repository defines a session duration.
const TTL = 120 * time.Hour // 5 days

// RecencyWindow is the maximum age of the underlying sign-in for an identity
// credential to still be exchangeable for a session.
const RecencyWindow = 5 * time.Minute

// Carrier reads, writes and clears the one session cookie. Writes always set
// the full attribute set; clears are idempotent. A present-but-unverified
// value must never be treated as "logged in" for any user-facing redirect
// decision; that is Verifier's job.
type Carrier struct {
	// Secure is false only outside production so local HTTP works.
	Secure bool
}

// Read returns the raw opaque carrier value, or ok=false when absent.
func (c Carrier) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Write persists the session credential with the fixed attribute set.
func (c Carrier) Write(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the carrier. Clearing an absent cookie is a no-op, never an
// error; callers clear freely after any failed verification.
func (c Carrier) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
