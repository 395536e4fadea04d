package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token use markers keep the two credential kinds from being swapped: an
// identity credential presented as a session cookie must not verify.
const (
	tokenUseID      = "id"
	tokenUseSession = "session"
)

type tokenClaims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	AuthTime int64  `json:"auth_time,omitempty"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenService is the self-hosted identity provider: HS256-signed
// credentials with a jti per minted session so individual sessions can be
// revoked. It satisfies Provider and RevocationList-aware verification.
type TokenService struct {
	signingKey  []byte
	issuer      string
	revocations RevocationList
	now         func() time.Time
}

// NewTokenService constructs the provider. revocations may be nil, in which
// case VerifySessionToken skips the revocation check.
func NewTokenService(signingKey string, issuer string, revocations RevocationList) *TokenService {
	return &TokenService{
		signingKey:  []byte(signingKey),
		issuer:      issuer,
		revocations: revocations,
		now:         time.Now,
	}
}

// MintIDToken issues a short-lived identity credential. Used by the dev
// sign-in path and tests; real deployments get identity credentials from the
// upstream sign-in flow.
func (s *TokenService) MintIDToken(subject, email, name, picture string, authTime time.Time) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:    email,
		Name:     name,
		Picture:  picture,
		AuthTime: authTime.Unix(),
		TokenUse: tokenUseID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// VerifyIDToken implements Provider.
func (s *TokenService) VerifyIDToken(_ context.Context, idToken string) (*Claims, error) {
	return s.verify(idToken, tokenUseID)
}

// MintSessionToken implements Provider. The identity credential is
// re-verified before minting; the session credential inherits its claims.
func (s *TokenService) MintSessionToken(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	claims, err := s.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		AuthTime: claims.AuthTime.Unix(),
		TokenUse: tokenUseSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifySessionToken implements Provider. A revoked jti fails verification
// even while the credential itself is still within its lifetime.
func (s *TokenService) VerifySessionToken(ctx context.Context, value string) (*Claims, error) {
	parsed, err := s.parse(value, tokenUseSession)
	if err != nil {
		return nil, err
	}

	if s.revocations != nil && parsed.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, parsed.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: revocation check: %v", ErrTokenInvalid, err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claimsFrom(parsed), nil
}

// RevokeSessionToken invalidates a still-valid session credential, keyed by
// its jti and retained until the credential would have expired anyway. An
// expired or unparseable value is a no-op: there is nothing left to revoke.
func (s *TokenService) RevokeSessionToken(ctx context.Context, value string) error {
	if s.revocations == nil {
		return nil
	}
	parsed, err := s.parse(value, tokenUseSession)
	if err != nil {
		return nil
	}
	ttl := time.Until(parsed.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, parsed.ID, ttl)
}

func (s *TokenService) verify(value, use string) (*Claims, error) {
	parsed, err := s.parse(value, use)
	if err != nil {
		return nil, err
	}
	return claimsFrom(parsed), nil
}

func (s *TokenService) parse(value, use string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(value, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenUse != use {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func claimsFrom(c *tokenClaims) *Claims {
	out := &Claims{
		Subject:  c.Subject,
		Email:    c.Email,
		Name:     c.Name,
		Picture:  c.Picture,
		AuthTime: time.Unix(c.AuthTime, 0),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
