// Package product holds the catalog types shown by offview.
package product

// UnknownCode is sent in place of a missing product code when a detail lookup is
// requested for a search result that carried none. The lookup is expected to fail
// or return an unrelated product; it is never a validated input.
const UnknownCode = "unknown"

// Product is a search result summary. Both fields are optional on the wire.
type Product struct {
	Code *string
	Name *string
}

// Detail is the full record returned by a product lookup.
type Detail struct {
	Code            string
	Name            *string
	IngredientsText *string
	Brand           *string
}

// LookupCode returns the code to request details with, falling back to UnknownCode.
func (p Product) LookupCode() string {
	if p.Code == nil || *p.Code == "" {
		return UnknownCode
	}
	return *p.Code
}

// DisplayName returns the product name, or a placeholder for unnamed products.
func (p Product) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	if p.Code != nil && *p.Code != "" {
		return "(unnamed " + *p.Code + ")"
	}
	return "(unnamed product)"
}

// DisplayName returns the detail name, or the code when the name is missing.
func (d Detail) DisplayName() string {
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.Code
}

// Ingredients returns the ingredients text or "N/A".
func (d Detail) Ingredients() string {
	if d.IngredientsText == nil || *d.IngredientsText == "" {
		return "N/A"
	}
	return *d.IngredientsText
}

// StringPtr returns a pointer to s. Handy for building optional fields.
func StringPtr(s string) *string {
	return &s
}

// Value dereferences an optional string, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
