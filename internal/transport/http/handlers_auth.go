package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dietcal/internal/audit"
	"dietcal/internal/session"
)

// SessionRevoker invalidates a still-live session credential at logout.
type SessionRevoker interface {
	RevokeSessionToken(ctx context.Context, value string) error
}

type authHandler struct {
	issuer   *session.Issuer
	verifier *session.Verifier
	carrier  session.Carrier
	revoker  SessionRevoker
	audit    *audit.Publisher
	logger   *slog.Logger
}

func newAuthHandler(d Deps) *authHandler {
	return &authHandler{
		issuer:   d.Issuer,
		verifier: d.Verifier,
		carrier:  d.Carrier,
		revoker:  d.Revoker,
		audit:    d.Audit,
		logger:   d.Logger.With("component", "http.auth"),
	}
}

type exchangeRequest struct {
	IdentityToken string `json:"identityToken"`
	// Older clients send the provider SDK's field name.
	IDToken string `json:"idToken"`
}

func (req exchangeRequest) token() string {
	if req.IdentityToken != "" {
		return req.IdentityToken
	}
	return req.IDToken
}

type exchangeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleSessionLogin exchanges a fresh identity credential for the session
// cookie. Failures stay generic: the client learns that authentication
// failed, never why the provider rejected it.
func (h *authHandler) handleSessionLogin(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.token() == "" {
		writeJSON(w, http.StatusBadRequest, exchangeResponse{Success: false, Error: "Invalid request body."})
		return
	}

	err := h.issuer.Issue(r.Context(), w, req.token())
	switch {
	case err == nil:
		h.audit.Emit(audit.FromRequest(r, audit.EventSessionIssued, "", ""))
		writeJSON(w, http.StatusOK, exchangeResponse{Success: true})

	case errors.Is(err, session.ErrStaleCredential):
		h.audit.Emit(audit.FromRequest(r, audit.EventExchangeRejected, "", "stale"))
		writeJSON(w, http.StatusUnauthorized, exchangeResponse{Success: false, Error: "Recent sign-in required."})

	case errors.Is(err, session.ErrInvalidCredential):
		h.audit.Emit(audit.FromRequest(r, audit.EventExchangeRejected, "", "invalid"))
		writeJSON(w, http.StatusUnauthorized, exchangeResponse{Success: false, Error: "Authentication failed."})

	default:
		// Issuance failure after verification. The issuer already rolled
		// the carrier back.
		h.audit.Emit(audit.FromRequest(r, audit.EventExchangeRejected, "", "issuance"))
		writeJSON(w, http.StatusInternalServerError, exchangeResponse{Success: false, Error: "Authentication failed."})
	}
}

type probeResponse struct {
	Authenticated bool   `json:"authenticated"`
	Reason        string `json:"reason"`
}

// handleProbe reports session state. Always 200: the reason field carries
// the outcome, not the status code. Verification failure clears the carrier
// as a side effect so the client does not keep a stale session.
func (h *authHandler) handleProbe(w http.ResponseWriter, r *http.Request) {
	user, reason := h.verifier.Verify(r.Context(), w, r)
	if user == nil && reason != session.ReasonNoCookie {
		h.audit.Emit(audit.FromRequest(r, audit.EventSessionInvalidated, "", string(reason)))
	}
	writeJSON(w, http.StatusOK, probeResponse{
		Authenticated: user != nil,
		Reason:        string(reason),
	})
}

// handleLogout revokes the live session credential where possible and
// clears the carrier. Always succeeds: logging out of nothing is fine.
func (h *authHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if value, ok := h.carrier.Read(r); ok && h.revoker != nil {
		if err := h.revoker.RevokeSessionToken(r.Context(), value); err != nil {
			h.logger.WarnContext(r.Context(), "logout revocation failed", "error", err)
		}
	}
	h.carrier.Clear(w)
	h.audit.Emit(audit.FromRequest(r, audit.EventLogout, "", ""))
	writeJSON(w, http.StatusOK, exchangeResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
