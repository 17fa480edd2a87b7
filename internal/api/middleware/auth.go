package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/inventory-api/internal/api/metrics"
	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

const msgUnauthenticated = "authentication required"

// Auth validates the bearer token and injects the account ID into the request
// context. Every failure produces the same 401 body; the cause is only logged
// and counted.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, reason := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if reason != "" {
				return reject(c, log, reason, domain.ErrUnauthenticated)
			}

			accountID, err := verifier.Verify(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				return reject(c, log, reason, err)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithAccountID(req.Context(), accountID)))
			c.Set(ContextKeyAccountID, accountID)

			return next(c)
		}
	}
}

func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "missing"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "malformed_header"
	}
	return strings.TrimSpace(parts[1]), ""
}

func reject(c echo.Context, log zerolog.Logger, reason string, cause error) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	log.Debug().
		Str("reason", reason).
		Str("path", c.Path()).
		Msg("request rejected by auth middleware")
	return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthenticated).SetInternal(cause)
}
