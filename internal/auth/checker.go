package auth

import "context"

var _ Checker = (*Service)(nil)
var _ Checker = (*JWTChecker)(nil)

// Checker resolves a presented token to the user behind it. Implementations
// return ErrNotLoggedIn for tokens that do not map to a live identity.
type Checker interface {
	UserID(ctx context.Context, token string) (string, error)
}
