package api

import (
	"encoding/json"

	"github.com/phrazzld/product-api/internal/domain"
)

// ProductResponse is the wire form of a product.
type ProductResponse struct {
	ID           int64       `json:"productID"`
	EANCodes     string      `json:"productEANCodes"`
	Name         string      `json:"productName"`
	Manufacturer string      `json:"productManufacturer"`
	Category     string      `json:"productCategory"`
	Price        json.Number `json:"productPrice"`
}

// productToResponse converts a domain product. The price is written as a bare
// JSON number with the store's precision.
func productToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		EANCodes:     p.EANCodes,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Category:     p.Category,
		Price:        json.Number(p.Price.String()),
	}
}

// productsToResponse converts a list of products; an empty list stays an
// empty JSON array.
func productsToResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return out
}
