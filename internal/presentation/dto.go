package presentation

import (
	"github.com/zjrosen/offview/internal/product"
)

// ProductDTO represents a search result for presentation
type ProductDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DetailDTO represents a product's details. Absent catalog fields are
// rendered as null rather than guessed.
type DetailDTO struct {
	Code        string  `json:"code"`
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Ingredients *string `json:"ingredients_text"`
}

// ErrorDTO is printed instead of a result when the fetch failed.
type ErrorDTO struct {
	Error string `json:"error"`
}

// FromProduct converts a search result to a DTO. A missing code becomes
// the sentinel that a detail lookup would use.
func FromProduct(p product.Product) ProductDTO {
	return ProductDTO{
		Code: p.LookupCode(),
		Name: product.Value(p.Name),
	}
}

// FromProducts converts search results to DTOs, keeping server order.
func FromProducts(ps []product.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(ps))
	for i, p := range ps {
		dtos[i] = FromProduct(p)
	}
	return dtos
}

// FromDetail converts product details to a DTO
func FromDetail(d product.Detail) DetailDTO {
	return DetailDTO{
		Code:        d.Code,
		Name:        d.Name,
		Brand:       d.Brand,
		Ingredients: d.IngredientsText,
	}
}
