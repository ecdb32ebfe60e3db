package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/offview/internal/product"
	"github.com/zjrosen/offview/internal/ui/styles"
)

// Zone ID format for result rows: result:{index}
const zoneResultPrefix = "result:"

func makeResultZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneResultPrefix, index)
}

func parseResultZoneID(zoneID string) (int, bool) {
	if !strings.HasPrefix(zoneID, zoneResultPrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(zoneID, zoneResultPrefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// resultsList is the scrollable list of search results. Each row is the
// button for one product and is labelled with the product name.
type resultsList struct {
	items  []product.Product
	cursor int
	offset int
	height int
}

// SetItems replaces the rows. The cursor returns to the top when the
// products differ from the ones shown.
func (l resultsList) SetItems(items []product.Product) resultsList {
	if !sameProducts(l.items, items) {
		l.cursor = 0
		l.offset = 0
	}
	l.items = items
	return l.clamp()
}

// SetHeight sets the number of visible rows.
func (l resultsList) SetHeight(height int) resultsList {
	l.height = max(height, 1)
	return l.clamp()
}

// Move shifts the cursor by delta rows, stopping at either end.
func (l resultsList) Move(delta int) resultsList {
	l.cursor += delta
	return l.clamp()
}

// Select puts the cursor on index.
func (l resultsList) Select(index int) resultsList {
	l.cursor = index
	return l.clamp()
}

// Top moves the cursor to the first row.
func (l resultsList) Top() resultsList {
	return l.Select(0)
}

// Bottom moves the cursor to the last row.
func (l resultsList) Bottom() resultsList {
	return l.Select(len(l.items) - 1)
}

// Selected returns the product under the cursor.
func (l resultsList) Selected() (product.Product, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return product.Product{}, false
	}
	return l.items[l.cursor], true
}

// Cursor returns the selected row index.
func (l resultsList) Cursor() int {
	return l.cursor
}

// Len returns the number of rows.
func (l resultsList) Len() int {
	return len(l.items)
}

// Visible returns the index range [start, end) of rows on screen.
func (l resultsList) Visible() (int, int) {
	return l.offset, min(l.offset+l.height, len(l.items))
}

func (l resultsList) clamp() resultsList {
	if len(l.items) == 0 {
		l.cursor, l.offset = 0, 0
		return l
	}
	l.cursor = min(max(l.cursor, 0), len(l.items)-1)
	if l.height <= 0 {
		return l
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	l.offset = min(max(l.offset, 0), max(len(l.items)-l.height, 0))
	return l
}

// View renders the visible rows, each wrapped in a click zone.
func (l resultsList) View(width int, focused bool) string {
	if len(l.items) == 0 {
		return styles.MutedStyle.Render("No products. Press / to search.")
	}

	codeWidth := 0
	start, end := l.Visible()
	for i := start; i < end; i++ {
		codeWidth = max(codeWidth, ansi.StringWidth(product.Value(l.items[i].Code)))
	}
	// Hide the code column on narrow panels.
	if width < codeWidth+20 {
		codeWidth = 0
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, zone.Mark(makeResultZoneID(i), l.renderRow(i, width, codeWidth, focused)))
	}
	return strings.Join(rows, "\n")
}

func (l resultsList) renderRow(i, width, codeWidth int, focused bool) string {
	p := l.items[i]

	indicator := "  "
	if i == l.cursor {
		indicator = styles.SelectionIndicatorStyle.Render("▸ ")
		if !focused {
			indicator = styles.MutedStyle.Render("▸ ")
		}
	}

	nameWidth := width - 2
	code := ""
	if codeWidth > 0 {
		nameWidth -= codeWidth + 1
		code = " " + styles.ProductCodeStyle.Render(styles.PadRight(product.Value(p.Code), codeWidth))
	}

	name := styles.PadRight(styles.TruncateString(p.DisplayName(), nameWidth), nameWidth)
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if i == l.cursor {
		nameStyle = styles.ProductNameStyle
	}
	return indicator + nameStyle.Render(name) + code
}

// sameProducts reports whether a and b list the same products in order.
func sameProducts(a, b []product.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if product.Value(a[i].Code) != product.Value(b[i].Code) ||
			product.Value(a[i].Name) != product.Value(b[i].Name) ||
			(a[i].Code == nil) != (b[i].Code == nil) {
			return false
		}
	}
	return true
}
