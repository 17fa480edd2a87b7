package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/inventory-api/internal/api/middleware"
	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// ctxAccountID returns the identity injected by the Auth middleware. A missing
// identity means the route was mounted without the middleware; fail closed.
func ctxAccountID(c echo.Context) (string, error) {
	id, ok := middleware.AccountID(c)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}
