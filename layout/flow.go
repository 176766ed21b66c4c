package layout

// Cursor is a position in the flowing document.
type Cursor struct {
	Page int     // 1-based page index
	Y    float64 // baseline of the next line
}

// Hooks receive the events of Flow. Either may be nil.
type Hooks struct {
	// NewPage is called before the first line of every page after the
	// starting one. It must append a page to the drawing surface.
	NewPage func() error
	// Line draws one line with its baseline at y.
	Line func(y float64, line string) error
}

// Flow places lines one after another starting at start, breaking to a new
// page whenever the next line would cross the bottom limit. It returns the
// cursor below the last line.
//
// Every line is emitted exactly once and in order. On a new page the
// cursor resets to g.ContinuationTop.
func Flow(lines []string, g Geometry, start Cursor, h Hooks) (Cursor, error) {
	if err := g.Validate(); err != nil {
		return start, err
	}
	c := start
	if c.Page == 0 {
		c.Page = 1
	}
	for _, line := range lines {
		var err error
		if c, err = Reserve(c, g.LineHeight, g, h.NewPage); err != nil {
			return c, err
		}
		if h.Line != nil {
			if err := h.Line(c.Y, line); err != nil {
				return c, err
			}
		}
		c.Y += g.LineHeight
	}
	return c, nil
}

// Reserve makes room for a block of the given height below c, starting a new
// page through newPage when the block would cross the bottom limit. A block
// taller than a whole page is placed at the top of a fresh page.
func Reserve(c Cursor, height float64, g Geometry, newPage func() error) (Cursor, error) {
	if c.Y+height <= g.Limit() {
		return c, nil
	}
	if newPage != nil {
		if err := newPage(); err != nil {
			return c, err
		}
	}
	return Cursor{Page: c.Page + 1, Y: g.ContinuationTop}, nil
}
