package session

import (
	"context"

	"dietcal/internal/identity"
)

// User is the read-only projection of verified claims handed to handlers.
// Constructed fresh on every successful verification; never cached across
// requests, never persisted.
type User struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// userFromClaims applies the defaulting rules: subject is required upstream,
// email defaults to empty, name to "User", picture stays optional.
func userFromClaims(claims *identity.Claims) *User {
	name := claims.Name
	if name == "" {
		name = "User"
	}
	return &User{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    name,
		Picture: claims.Picture,
	}
}

// Unexported, collision-proof context key.
type userContextKey struct{}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*User)
	return u, ok
}
