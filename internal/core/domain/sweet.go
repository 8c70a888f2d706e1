package domain

import "errors"

var ErrSweetNotFound = errors.New("sweet not found")
var ErrInvalidSweet = errors.New("invalid sweet payload")
var ErrOutOfStock = errors.New("sweet is out of stock")
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")
var ErrForbidden = errors.New("access forbidden")

// Sweet is a sellable catalog item. The ID is server-assigned (Mongo ObjectID
// hex); Price and Quantity are never negative.
type Sweet struct {
	ID       string  `json:"id" bson:"_id,omitempty"`
	Name     string  `json:"name" bson:"name"`
	Category string  `json:"category" bson:"category"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// InStock reports whether at least one unit can be purchased.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}
