package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/inventory-api/internal/api/metrics"
	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// ItemHandler serves the owner-scoped item endpoints. Every route sits behind
// the Auth middleware.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List returns the caller's items, newest first.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   itemResponse
// @Failure      401  {object}  errorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponses(items))
}

// Get returns one of the caller's items. Items owned by someone else are
// reported as not found.
//
// @Summary      Get item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  itemResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Create stores a new item owned by the caller. A repeated Idempotency-Key
// returns the item created by the first request with 200.
//
// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string       false  "Client-generated key for safe retries"
// @Param        body             body      itemRequest  true   "Item"
// @Success      201              {object}  itemResponse
// @Success      200              {object}  itemResponse  "Replay of an earlier request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	req, err := bindItem(c)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
	if len(key) > maxIdempotencyKeyLen {
		return domain.NewValidationError("Idempotency-Key must be at most 128 characters")
	}

	res, err := h.service.Create(c.Request().Context(), ownerID, toItemInput(req), key)
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.ItemsMutationsTotal.WithLabelValues("replay").Inc()
		c.Response().Header().Set(headerReplayed, "true")
		return c.JSON(http.StatusOK, toItemResponse(res.Item))
	}

	metrics.ItemsMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toItemResponse(res.Item))
}

// Update replaces the writable fields of one of the caller's items.
//
// @Summary      Update item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Item ID"
// @Param        body  body      itemRequest  true  "Item"
// @Success      200   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	req, err := bindItem(c)
	if err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), ownerID, c.Param("id"), toItemInput(req))
	if err != nil {
		return err
	}

	metrics.ItemsMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete removes one of the caller's items.
//
// @Summary      Delete item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		return err
	}

	metrics.ItemsMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Item deleted"})
}

// Summary aggregates the caller's inventory.
//
// @Summary      Inventory summary
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  errorResponse
// @Router       /items/summary [get]
func (h *ItemHandler) Summary(c echo.Context) error {
	ownerID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func bindItem(c echo.Context) (itemRequest, error) {
	var req itemRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return req, domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}
