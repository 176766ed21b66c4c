package layout

import (
	"strings"

	"github.com/lvillar/immodoc/render"
)

// Span is a run of text drawn in a single style.
type Span struct {
	Text  string
	Style render.Style
}

// Spans splits line into normal and bold runs. At each step the leftmost
// occurrence of any emphasized value is bold; when several values start at
// the same index the one listed first wins, even if it is shorter. Joining
// the span texts yields line.
func Spans(line string, emphasized []string) []Span {
	var spans []Span
	rest := line
	for rest != "" {
		match, at := "", -1
		for _, v := range emphasized {
			if v == "" {
				continue
			}
			if i := strings.Index(rest, v); i >= 0 && (at < 0 || i < at) {
				match, at = v, i
			}
		}
		if at < 0 {
			spans = append(spans, Span{Text: rest, Style: render.StyleNormal})
			break
		}
		if at > 0 {
			spans = append(spans, Span{Text: rest[:at], Style: render.StyleNormal})
		}
		spans = append(spans, Span{Text: match, Style: render.StyleBold})
		rest = rest[at+len(match):]
	}
	return spans
}

// DrawLine draws line at (x, y) with its emphasized values in bold. Each
// span is measured in its own style, so the runs abut exactly. It returns
// the x coordinate after the last span.
func DrawLine(s render.Surface, x, y float64, line string, emphasized []string, font render.Font, color render.Color) float64 {
	for _, sp := range Spans(line, emphasized) {
		f := font.WithStyle(sp.Style)
		s.Text(x, y, sp.Text, f, color)
		x += s.Measure(sp.Text, f)
	}
	return x
}
