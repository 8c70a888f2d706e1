package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/ports"
)

type sweetRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

func (r sweetRequest) toInput() ports.SweetInput {
	return ports.SweetInput{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Quantity: r.Quantity,
	}
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// searchFilterFromQuery parses the search query parameters. min_price and
// max_price distinguish "absent" from zero; a malformed number is a 400.
func searchFilterFromQuery(c echo.Context) (ports.SearchFilter, error) {
	filter := ports.SearchFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ports.SearchFilter{}, echo.NewHTTPError(http.StatusBadRequest, "min_price must be a number")
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ports.SearchFilter{}, echo.NewHTTPError(http.StatusBadRequest, "max_price must be a number")
		}
		filter.MaxPrice = &v
	}

	return filter, nil
}
