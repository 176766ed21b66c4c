// Package render defines the drawing surface the document engine writes to.
//
// Every text operation receives its Font explicitly; a Surface keeps no
// "current font" that callers depend on. PDF is the production surface, built
// on gofpdf. Recorder is an in-memory surface with deterministic metrics used
// by tests.
package render

import "io"

// Style selects the weight of a font.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
)

func (s Style) String() string {
	if s == StyleBold {
		return "bold"
	}
	return "normal"
}

// Font describes the face used to measure or draw a piece of text.
type Font struct {
	Family string  // core font family, e.g. "Helvetica"
	Style  Style   // normal or bold
	Size   float64 // in points
}

// WithStyle returns a copy of f using style s.
func (f Font) WithStyle(s Style) Font {
	f.Style = s
	return f
}

// Color is an RGB color with components in 0..255.
type Color struct {
	R, G, B int
}

// Common colors.
var (
	Black = Color{}
	Gray  = Color{R: 120, G: 120, B: 120}
)

// Box describes how a rectangle is painted. A nil Stroke or Fill disables
// that part of the painting.
type Box struct {
	LineWidth float64
	Stroke    *Color
	Fill      *Color
}

// CodeKind selects a two-dimensional barcode symbology.
type CodeKind int

const (
	CodeQR CodeKind = iota
	CodePDF417
)

// Info holds document metadata.
type Info struct {
	Title   string
	Author  string
	Subject string
}

// Surface is a paged drawing target. Coordinates are in millimetres from
// the top-left corner of the current page.
type Surface interface {
	// PageSize returns the width and height of a page.
	PageSize() (w, h float64)
	// AddPage appends a page and makes it current.
	AddPage()
	// SetPage makes page n (1-based) current.
	SetPage(n int)
	// PageCount returns the number of pages.
	PageCount() int
	// Measure returns the width of text drawn with font.
	Measure(text string, font Font) float64
	// Text draws text with its baseline starting at (x, y).
	Text(x, y float64, text string, font Font, color Color)
	// Rect paints a rectangle.
	Rect(x, y, w, h float64, box Box)
	// Image draws an encoded image at (x, y) scaled to width w, preserving
	// its aspect ratio, and returns the drawn height.
	Image(name string, data []byte, x, y, w float64) (float64, error)
	// Code draws a square two-dimensional barcode of side size.
	Code(kind CodeKind, content string, x, y, size float64) error
	// SetInfo records document metadata.
	SetInfo(info Info)
	// Output writes the finished document.
	Output(w io.Writer) error
	// Err returns the first drawing error, if any.
	Err() error
}

// Centered returns the x coordinate that centers text horizontally on s.
func Centered(s Surface, text string, font Font) float64 {
	w, _ := s.PageSize()
	return (w - s.Measure(text, font)) / 2
}
