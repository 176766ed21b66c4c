package layout

import "strings"

// Measurer returns the rendered width of a string in the body font.
type Measurer func(s string) float64

// tabWidth is the number of spaces a tab expands to.
const tabWidth = 4

// Wrap splits body into lines no wider than width.
//
// Paragraphs are separated by newlines and always start a new line; an empty
// paragraph yields an empty line. Words are separated by single spaces, so
// runs of spaces survive inside a line. A word wider than width is placed
// alone on its own line. Spaces at a break are dropped.
func Wrap(body string, width float64, measure Measurer) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = strings.ReplaceAll(body, "\t", strings.Repeat(" ", tabWidth))

	var lines []string
	for _, par := range strings.Split(body, "\n") {
		lines = wrapParagraph(lines, par, width, measure)
	}
	return lines
}

func wrapParagraph(lines []string, par string, width float64, measure Measurer) []string {
	tokens := strings.Split(par, " ")
	line := tokens[0]
	broken := false
	for _, tok := range tokens[1:] {
		if broken && line == "" {
			// Continuation lines do not start with the spaces of a break.
			if tok == "" {
				continue
			}
			line = tok
			continue
		}
		candidate := line + " " + tok
		if measure(candidate) <= width {
			line = candidate
			continue
		}
		if trimmed := strings.TrimRight(line, " "); trimmed != "" {
			lines = append(lines, trimmed)
			broken = true
		}
		line = tok
	}
	if broken {
		line = strings.TrimRight(line, " ")
	}
	return append(lines, line)
}
