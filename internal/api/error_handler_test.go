package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.NewValidationError("name is required"), http.StatusBadRequest, `{"message":"name is required"}`},
		{"conflict", domain.ErrAccountExists, http.StatusConflict, `{"message":"username or email already registered"}`},
		{"pending idempotency", domain.ErrIdempotencyPending, http.StatusConflict, `{"message":"a request with this idempotency key is still in progress"}`},
		{"credentials", fmt.Errorf("wrapped: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, `{"message":"invalid credentials"}`},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, `{"message":"authentication required"}`},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, `{"message":"authentication required"}`},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, `{"message":"authentication required"}`},
		{"echo 401", echo.NewHTTPError(http.StatusUnauthorized, "token expired"), http.StatusUnauthorized, `{"message":"authentication required"}`},
		{"not found", domain.ErrItemNotFound, http.StatusNotFound, `{"message":"item not found"}`},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, `{"message":"Not Found"}`},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, `{"message":"internal server error"}`},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	assert.Equal(t, "done", rec.Body.String())
}
