package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/ports"
)

const defaultHistoryLimit = 50

// StockEventHandler serves the stock movement ledger.
type StockEventHandler struct {
	reader ports.StockEventReader
}

func NewStockEventHandler(reader ports.StockEventReader) *StockEventHandler {
	return &StockEventHandler{reader: reader}
}

// History handles GET /api/sweets/:id/events (admin only).
//
// @Summary      List recent stock movements for an item
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Sweet id"
// @Param        limit  query     int     false  "max entries (default 50)"
// @Success      200  {array}   domain.StockEvent
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/sweets/{id}/events [get]
func (h *StockEventHandler) History(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = v
	}

	events, err := h.reader.Recent(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
