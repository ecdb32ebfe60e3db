package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/offview/internal/product"
)

func TestFromProducts_KeepsOrderAndUsesSentinel(t *testing.T) {
	dtos := FromProducts([]product.Product{
		{Code: product.StringPtr("2"), Name: product.StringPtr("Tea")},
		{Name: product.StringPtr("Coffee")},
	})
	require.Equal(t, []ProductDTO{
		{Code: "2", Name: "Tea"},
		{Code: product.UnknownCode, Name: "Coffee"},
	}, dtos)
}

func TestFormatProducts_Table(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, false).FormatProducts([]ProductDTO{
		{Code: "3017620422003", Name: "Nutella"},
		{Code: "42", Name: ""},
	})
	require.NoError(t, err)
	require.Equal(t,
		"CODE           NAME\n"+
			"3017620422003  Nutella\n"+
			"42             -\n",
		buf.String())
}

func TestFormatProducts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, false).FormatProducts(nil))
	require.Equal(t, "No products found.\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, true).FormatProducts([]ProductDTO{}))
	require.Equal(t, "[]\n", buf.String())
}

func TestFormatDetail_Text(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, false).FormatDetail(FromDetail(product.Detail{
		Code:  "3017620422003",
		Name:  product.StringPtr("Nutella"),
		Brand: product.StringPtr("Ferrero"),
	}))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"Nutella",
		"Brand:       Ferrero",
		"Code:        3017620422003",
		"Ingredients: N/A",
	}, lines)
}

func TestFormatDetail_TextWithoutName(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, false).FormatDetail(DetailDTO{
		Code:        "42",
		Ingredients: product.StringPtr(""),
	})
	require.NoError(t, err)
	require.Equal(t, "42\nCode:        42\nIngredients: \n", buf.String())
}

func TestFormatDetail_JSONKeepsNulls(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, true).FormatDetail(FromDetail(product.Detail{
		Code: "42",
		Name: product.StringPtr("Water"),
	}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "42", got["code"])
	require.Equal(t, "Water", got["name"])
	require.Contains(t, got, "brand")
	require.Nil(t, got["brand"])
	require.Nil(t, got["ingredients_text"])
}

func TestFormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, false).FormatError("Request failed: boom"))
	require.Equal(t, "Error: Request failed: boom\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(&buf, true).FormatError("Request failed: boom"))
	require.JSONEq(t, `{"error":"Request failed: boom"}`, buf.String())
}
