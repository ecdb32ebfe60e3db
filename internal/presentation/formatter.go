package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/offview/internal/product"
	"github.com/zjrosen/offview/internal/ui/styles"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool
}

// NewFormatter creates a new formatter. With asJSON set every result is
// written as indented JSON, otherwise as plain text.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		json:   asJSON,
	}
}

// FormatProducts writes search results as a two-column table (code, name)
// or a JSON array.
func (f *Formatter) FormatProducts(products []ProductDTO) error {
	if f.json {
		return f.encode(products)
	}
	if len(products) == 0 {
		_, err := fmt.Fprintln(f.writer, "No products found.")
		return err
	}

	codeWidth := len("CODE")
	for _, p := range products {
		codeWidth = max(codeWidth, ansi.StringWidth(p.Code))
	}

	var sb strings.Builder
	sb.WriteString(styles.PadRight("CODE", codeWidth) + "  NAME\n")
	for _, p := range products {
		name := p.Name
		if name == "" {
			name = "-"
		}
		sb.WriteString(styles.PadRight(p.Code, codeWidth) + "  " + name + "\n")
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// FormatDetail writes a product's details as labelled lines or a JSON object.
func (f *Formatter) FormatDetail(d DetailDTO) error {
	if f.json {
		return f.encode(d)
	}

	var sb strings.Builder
	name := product.Value(d.Name)
	if name == "" {
		name = d.Code
	}
	sb.WriteString(name + "\n")
	if d.Brand != nil && *d.Brand != "" {
		sb.WriteString("Brand:       " + *d.Brand + "\n")
	}
	sb.WriteString("Code:        " + d.Code + "\n")
	ingredients := "N/A"
	if d.Ingredients != nil {
		ingredients = *d.Ingredients
	}
	sb.WriteString("Ingredients: " + ingredients + "\n")
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// FormatError writes a fetch failure. In text mode it uses the same
// "Error: ..." form as the UI.
func (f *Formatter) FormatError(text string) error {
	if f.json {
		return f.encode(ErrorDTO{Error: text})
	}
	_, err := fmt.Fprintln(f.writer, "Error: "+text)
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
