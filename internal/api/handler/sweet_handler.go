package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/api/metrics"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// SweetHandler handles HTTP requests for catalog operations.
type SweetHandler struct {
	service ports.SweetService
}

func NewSweetHandler(service ports.SweetService) *SweetHandler {
	return &SweetHandler{service: service}
}

// List handles GET /api/sweets.
//
// @Summary      List the full catalog
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Sweet
// @Failure      401  {object}  map[string]string
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	sweets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Search handles GET /api/sweets/search. An empty result set is a valid
// success state and renders as [].
//
// @Summary      Search the catalog
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        name       query     string  false  "partial name match"
// @Param        category   query     string  false  "exact category match"
// @Param        min_price  query     number  false  "minimum price"
// @Param        max_price  query     number  false  "maximum price"
// @Success      200  {array}   domain.Sweet
// @Failure      400  {object}  map[string]string
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	filter, err := searchFilterFromQuery(c)
	if err != nil {
		return err
	}

	sweets, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweets)
}

// Create handles POST /api/sweets (admin only).
//
// @Summary      Create a catalog item
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sweetRequest  true  "Sweet details"
// @Success      201   {object}  domain.Sweet
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req sweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.SweetsCreatedTotal.WithLabelValues(sweet.Category).Inc()
	return c.JSON(http.StatusCreated, sweet)
}

// Update handles PUT /api/sweets/:id (admin only).
//
// @Summary      Replace a catalog item
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Sweet id"
// @Param        body  body      sweetRequest  true  "Sweet details"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req sweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweet)
}

// Delete handles DELETE /api/sweets/:id (admin only).
//
// @Summary      Delete a catalog item
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "sweet deleted"})
}

// Restock handles POST /api/sweets/:id/restock (admin only).
//
// @Summary      Increase an item's stock
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Sweet id"
// @Param        body  body      restockRequest  true  "Restock quantity"
// @Success      200   {object}  domain.Sweet
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// The service re-checks quantity > 0; validation here just produces the
	// nicer message for the common case.
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Restock(c.Request().Context(), c.Param("id"), req.Quantity)
	if err != nil {
		return err
	}

	metrics.RestocksTotal.Inc()
	return c.JSON(http.StatusOK, sweet)
}

// Purchase handles POST /api/sweets/:id/purchase. Available to any
// authenticated user; the repository guard makes the decrement atomic.
//
// @Summary      Purchase one unit
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      200  {object}  domain.Sweet
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	sweet, err := h.service.Purchase(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			metrics.OutOfStockTotal.Inc()
		}
		return err
	}

	metrics.PurchasesTotal.Inc()
	return c.JSON(http.StatusOK, sweet)
}
