// Package layout turns substituted template text into positioned lines.
//
// Wrap splits a body into lines that fit the usable width, Flow assigns each
// line a vertical position and breaks pages, and Spans / DrawLine render a
// line with its substituted values in bold.
package layout

import (
	"github.com/lvillar/immodoc"
)

// Geometry holds page dimensions and vertical rhythm, in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	// Margin applies to both the left and right edges.
	Margin       float64
	BottomMargin float64
	LineHeight   float64
	// ContinuationTop is the first baseline on pages after the first.
	ContinuationTop float64
}

// A4 returns the geometry used for all generated documents: 14 mm side
// margins, 20 mm bottom margin and continuation pages starting at 25 mm.
func A4(lineHeight float64) Geometry {
	return Geometry{
		PageWidth:       210,
		PageHeight:      297,
		Margin:          14,
		BottomMargin:    20,
		LineHeight:      lineHeight,
		ContinuationTop: 25,
	}
}

// Left returns the x coordinate of the left margin.
func (g Geometry) Left() float64 { return g.Margin }

// UsableWidth returns the page width minus both side margins.
func (g Geometry) UsableWidth() float64 { return g.PageWidth - 2*g.Margin }

// Limit returns the lowest baseline a line may occupy.
func (g Geometry) Limit() float64 { return g.PageHeight - g.BottomMargin }

// Validate reports a geometry in which no line can be placed.
func (g Geometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return immodoc.NewConfigurationError("page size", "width and height must be positive")
	case g.Margin < 0 || g.BottomMargin < 0:
		return immodoc.NewConfigurationError("margins", "must not be negative")
	case g.UsableWidth() <= 0:
		return immodoc.NewConfigurationError("usable width", "side margins leave no room for text")
	case g.LineHeight <= 0:
		return immodoc.NewConfigurationError("line height", "must be positive")
	case g.ContinuationTop < 0 || g.ContinuationTop+g.LineHeight > g.Limit():
		return immodoc.NewConfigurationError("continuation top", "no line fits between the top offset and the bottom margin")
	}
	return nil
}
