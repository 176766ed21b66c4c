// Package table draws grid tables on a render.Surface.
//
// It supports fixed and auto-width columns, repeating header rows,
// alternating row colors, colspan and wrapped cell text, and breaks to a new
// page through a callback when a row would cross the bottom limit of the page
// geometry.
package table

import "github.com/lvillar/immodoc/render"

// Align is the horizontal alignment of cell content.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color render.Color
}

// CellStyle defines the visual appearance of a cell. Nil fields inherit
// from the enclosing level.
type CellStyle struct {
	FillColor *render.Color
	TextColor *render.Color
	Font      *render.Font
	Align     Align
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	HeaderStyle   *CellStyle
	CellPadding   Padding
	CellFont      render.Font
}

// DefaultFont is used when a table style sets no cell font.
var DefaultFont = render.Font{Family: "Helvetica", Size: 10}
