package fetch

import (
	"slices"

	"github.com/zjrosen/offview/internal/product"
)

// ViewState selects which screen is active.
type ViewState int

const (
	ViewSearchResults ViewState = iota
	ViewProductDetails
)

func (v ViewState) String() string {
	switch v {
	case ViewSearchResults:
		return "search-results"
	case ViewProductDetails:
		return "product-details"
	default:
		return "unknown"
	}
}

// State is everything the rendering surface displays.
// Setting Loading clears Err; Err replaces the view body while set.
type State struct {
	SearchTerm string
	Results    []product.Product
	Selected   *product.Detail
	View       ViewState
	Loading    bool
	Err        *string
}

// ErrText returns the error text, or "" when no error is set.
func (s State) ErrText() string {
	if s.Err == nil {
		return ""
	}
	return *s.Err
}

// clone returns a copy that shares no mutable memory with s.
func (s State) clone() State {
	out := s
	out.Results = slices.Clone(s.Results)
	if s.Selected != nil {
		detail := *s.Selected
		out.Selected = &detail
	}
	if s.Err != nil {
		text := *s.Err
		out.Err = &text
	}
	return out
}
