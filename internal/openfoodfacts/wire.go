package openfoodfacts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zjrosen/offview/internal/product"
)

// code accepts a barcode sent either as a JSON string or a JSON number.
type code string

func (c *code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = code(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("code is neither string nor number: %s", data)
		}
		*c = code(n.String())
		return nil
	}
}

func (c *code) ptr() *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}

type searchResponse struct {
	Count    int             `json:"count"`
	Products []searchProduct `json:"products"`
}

type searchProduct struct {
	Code        *code   `json:"code"`
	ProductName *string `json:"product_name"`
}

func (r searchResponse) toProducts() []product.Product {
	out := make([]product.Product, 0, len(r.Products))
	for _, p := range r.Products {
		out = append(out, product.Product{Code: p.Code.ptr(), Name: p.ProductName})
	}
	return out
}

type detailResponse struct {
	Code          *code          `json:"code"`
	Status        *int           `json:"status"`
	StatusVerbose string         `json:"status_verbose"`
	Product       *detailProduct `json:"product"`
}

type detailProduct struct {
	Code            *code   `json:"code"`
	ProductName     *string `json:"product_name"`
	IngredientsText *string `json:"ingredients_text"`
	Brands          *string `json:"brands"`
}

// toDetail resolves the product code from the product object, then the
// envelope, then the code that was asked for.
func (r detailResponse) toDetail(requested string) (product.Detail, error) {
	if (r.Status != nil && *r.Status == 0) || r.Product == nil {
		if r.StatusVerbose != "" && r.StatusVerbose != ErrProductNotFound.Error() {
			return product.Detail{}, fmt.Errorf("%w: %s", ErrProductNotFound, r.StatusVerbose)
		}
		return product.Detail{}, ErrProductNotFound
	}

	resolved := requested
	switch {
	case r.Product.Code != nil && *r.Product.Code != "":
		resolved = string(*r.Product.Code)
	case r.Code != nil && *r.Code != "":
		resolved = string(*r.Code)
	}

	return product.Detail{
		Code:            resolved,
		Name:            r.Product.ProductName,
		IngredientsText: r.Product.IngredientsText,
		Brand:           r.Product.Brands,
	}, nil
}
