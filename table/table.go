package table

import (
	"github.com/lvillar/immodoc/layout"
	"github.com/lvillar/immodoc/render"
)

// ptToMM converts a font size in points to millimetres.
const ptToMM = 25.4 / 72

// minRowHeight is the height of a row with no content.
const minRowHeight = 5.0

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64 // Fixed width. 0 means auto/fill.
	MinWidth float64 // Minimum width for auto columns.
	MaxWidth float64 // Maximum width for auto columns. 0 means unlimited.
	Align    Align   // Default alignment for this column.
}

// Table is a table builder drawing on a render.Surface.
type Table struct {
	s          render.Surface
	columns    []ColumnDef
	rows       []*Row
	style      TableStyle
	x          float64
	tableWidth float64 // 0 means the usable width of the geometry

	geometry layout.Geometry
	newPage  func() error
}

// New creates a new Table drawing on s with the A4 document geometry.
func New(s render.Surface) *Table {
	return &Table{
		s:        s,
		style:    TableStyle{CellPadding: UniformPadding(1), CellFont: DefaultFont},
		geometry: layout.A4(7),
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetColumnWidths is a convenience method to set column widths directly.
// A width of 0 means the column will auto-fill remaining space.
func (t *Table) SetColumnWidths(widths ...float64) *Table {
	t.columns = make([]ColumnDef, len(widths))
	for i, w := range widths {
		t.columns[i] = ColumnDef{Width: w}
	}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	if s.CellFont.Size == 0 {
		s.CellFont = DefaultFont
	}
	t.style = s
	return t
}

// SetX sets the left edge of the table. If not called, the table starts at
// the left margin of the geometry.
func (t *Table) SetX(x float64) *Table {
	t.x = x
	return t
}

// SetWidth sets the total table width. If not called, the table spans the
// usable width of the geometry.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// SetPageBreak sets the geometry rows are laid out in and the function
// called to append a page when a row does not fit. Without newPage, rows
// are drawn past the bottom limit.
func (t *Table) SetPageBreak(g layout.Geometry, newPage func() error) *Table {
	t.geometry = g
	t.newPage = newPage
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a new header row and returns it for chaining. Header
// rows are drawn first and repeated at the top of each new page.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	insertIdx := 0
	for i, existing := range t.rows {
		if !existing.isHeader {
			insertIdx = i
			break
		}
		insertIdx = i + 1
	}
	t.rows = append(t.rows, nil)
	copy(t.rows[insertIdx+1:], t.rows[insertIdx:])
	t.rows[insertIdx] = r
	return r
}

// Render draws the table with its top edge at start and returns the cursor
// below the last row.
func (t *Table) Render(start layout.Cursor) (layout.Cursor, error) {
	if err := t.s.Err(); err != nil {
		return start, err
	}

	widths := t.calculateWidths()
	startX := t.x
	if startX == 0 {
		startX = t.geometry.Left()
	}

	var headerRows, bodyRows []*Row
	for _, r := range t.rows {
		if r.isHeader {
			headerRows = append(headerRows, r)
		} else {
			bodyRows = append(bodyRows, r)
		}
	}

	c := start
	if c.Page == 0 {
		c.Page = 1
	}
	for _, r := range headerRows {
		c.Y = t.renderRow(r, widths, startX, c.Y, -1)
	}

	for i, r := range bodyRows {
		rowH := t.calculateRowHeight(r, widths)
		if t.newPage != nil {
			next, err := layout.Reserve(c, rowH, t.geometry, t.newPage)
			if err != nil {
				return c, err
			}
			if next.Page != c.Page {
				c = next
				for _, hr := range headerRows {
					c.Y = t.renderRow(hr, widths, startX, c.Y, -1)
				}
			}
		}
		c.Y = t.renderRow(r, widths, startX, c.Y, i)
	}

	return c, t.s.Err()
}

// calculateWidths computes final column widths based on definitions and
// available space.
func (t *Table) calculateWidths() []float64 {
	totalWidth := t.tableWidth
	if totalWidth == 0 {
		totalWidth = t.geometry.UsableWidth()
	}

	numCols := len(t.columns)
	if numCols == 0 {
		if len(t.rows) > 0 {
			numCols = len(t.rows[0].cells)
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	widths := make([]float64, numCols)
	fixedTotal := 0.0
	autoCount := 0

	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoCount++
		}
	}

	if autoCount > 0 {
		remaining := totalWidth - fixedTotal
		if remaining < 0 {
			remaining = 0
		}
		autoWidth := remaining / float64(autoCount)
		for i, col := range t.columns {
			if col.Width == 0 {
				w := autoWidth
				if col.MinWidth > 0 && w < col.MinWidth {
					w = col.MinWidth
				}
				if col.MaxWidth > 0 && w > col.MaxWidth {
					w = col.MaxWidth
				}
				widths[i] = w
			}
		}
	}

	return widths
}

// spanWidth returns the width of the cell at column i including colspan.
func spanWidth(cell *Cell, i int, widths []float64) float64 {
	w := widths[i]
	for j := 1; j < cell.colspan && i+j < len(widths); j++ {
		w += widths[i+j]
	}
	return w
}

// cellLines wraps the text of a cell to its content width.
func (t *Table) cellLines(cell *Cell, font render.Font, contentW float64) []string {
	return layout.Wrap(cell.text, contentW, func(s string) float64 {
		return t.s.Measure(s, font)
	})
}

func lineHeight(font render.Font) float64 {
	return font.Size * ptToMM * 1.5
}

// calculateRowHeight computes the height needed for a row based on cell
// content.
func (t *Table) calculateRowHeight(r *Row, widths []float64) float64 {
	maxH := minRowHeight
	if r.minH > maxH {
		maxH = r.minH
	}
	padding := t.style.CellPadding

	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		contentW := spanWidth(cell, i, widths) - padding.Left - padding.Right
		if contentW < 1 {
			contentW = 1
		}
		font := t.resolveCellStyle(cell, r, 0, r.isHeader).font(t.style.CellFont)
		lines := t.cellLines(cell, font, contentW)
		cellH := float64(len(lines))*lineHeight(font) + padding.Top + padding.Bottom
		if cellH > maxH {
			maxH = cellH
		}
	}
	return maxH
}

// renderRow draws a single row with its top edge at y and returns the y
// coordinate of its bottom edge.
func (t *Table) renderRow(r *Row, widths []float64, startX, y float64, bodyIdx int) float64 {
	rowH := t.calculateRowHeight(r, widths)
	padding := t.style.CellPadding

	border := render.Box{LineWidth: 0.1, Stroke: &render.Black}
	if t.style.Border != nil {
		c := t.style.Border.Color
		border = render.Box{LineWidth: t.style.Border.Width, Stroke: &c}
	}

	x := startX
	col := 0
	for _, cell := range r.cells {
		if col >= len(widths) {
			break
		}
		cellW := spanWidth(cell, col, widths)
		style := t.resolveCellStyle(cell, r, bodyIdx, r.isHeader)

		if style.FillColor != nil {
			t.s.Rect(x, y, cellW, rowH, render.Box{Fill: style.FillColor})
		}
		t.s.Rect(x, y, cellW, rowH, border)

		align := style.Align
		if align == "" && col < len(t.columns) {
			align = t.columns[col].Align
		}
		color := render.Black
		if style.TextColor != nil {
			color = *style.TextColor
		}
		font := style.font(t.style.CellFont)
		contentW := cellW - padding.Left - padding.Right
		lh := lineHeight(font)

		for i, line := range t.cellLines(cell, font, contentW) {
			lx := x + padding.Left
			switch align {
			case AlignCenter:
				lx += (contentW - t.s.Measure(line, font)) / 2
			case AlignRight:
				lx += contentW - t.s.Measure(line, font)
			}
			t.s.Text(lx, y+padding.Top+float64(i)*lh+lh*0.7, line, font, color)
		}

		x += cellW
		col += cell.colspan
	}
	return y + rowH
}

// resolveCellStyle determines the effective style for a cell by merging
// header, alternate row, row, and cell-level styles.
func (t *Table) resolveCellStyle(cell *Cell, row *Row, bodyIdx int, isHeader bool) CellStyle {
	var result CellStyle

	if isHeader && t.style.HeaderStyle != nil {
		mergeStyle(&result, t.style.HeaderStyle)
	}
	if !isHeader && t.style.AlternateRows != nil && bodyIdx >= 0 {
		if bodyIdx%2 == 0 {
			mergeStyle(&result, &t.style.AlternateRows.Even)
		} else {
			mergeStyle(&result, &t.style.AlternateRows.Odd)
		}
	}
	if row.style != nil {
		mergeStyle(&result, row.style)
	}
	if cell.style != nil {
		mergeStyle(&result, cell.style)
	}
	return result
}

func (s CellStyle) font(def render.Font) render.Font {
	if s.Font != nil {
		return *s.Font
	}
	return def
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
}
