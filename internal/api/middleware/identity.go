package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// ContextKeyAccountID is the echo.Context key holding the authenticated account ID.
const ContextKeyAccountID = "account_id"

type accountIDKey struct{}

// WithAccountID returns a copy of ctx carrying the authenticated account ID.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// AccountIDFromContext returns the account ID attached by Auth.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey{}).(string)
	return id, ok && id != ""
}

// AccountID reads the identity from the echo context, falling back to the
// request context.
func AccountID(c echo.Context) (string, bool) {
	if id, ok := c.Get(ContextKeyAccountID).(string); ok && id != "" {
		return id, true
	}
	return AccountIDFromContext(c.Request().Context())
}
