package render

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Op is one drawing operation captured by a Recorder.
type Op struct {
	Kind  string // "text", "rect", "image", "code"
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Font  Font
	Color Color
}

// Recorder is a Surface that records operations instead of producing a PDF.
// Text width is the rune count times CharWidth times the font size, scaled
// by BoldFactor for bold text.
type Recorder struct {
	Width, Height float64
	CharWidth     float64
	BoldFactor    float64
	// Fail, when set, is reported by Err.
	Fail error

	Ops   []Op
	Info  Info
	pages int
	page  int
}

// NewRecorder returns an A4 recorder where a 10 pt character is 2 mm wide.
func NewRecorder() *Recorder {
	return &Recorder{Width: 210, Height: 297, CharWidth: 0.2, BoldFactor: 1.1}
}

// PageSize implements Surface.
func (r *Recorder) PageSize() (float64, float64) { return r.Width, r.Height }

// AddPage implements Surface.
func (r *Recorder) AddPage() {
	r.pages++
	r.page = r.pages
}

// SetPage implements Surface.
func (r *Recorder) SetPage(n int) {
	if n >= 1 && n <= r.pages {
		r.page = n
	}
}

// PageCount implements Surface.
func (r *Recorder) PageCount() int { return r.pages }

// CurrentPage returns the page operations are recorded on.
func (r *Recorder) CurrentPage() int { return r.page }

// Measure implements Surface.
func (r *Recorder) Measure(text string, font Font) float64 {
	w := float64(utf8.RuneCountInString(text)) * r.CharWidth * font.Size
	if font.Style == StyleBold {
		w *= r.BoldFactor
	}
	return w
}

// Text implements Surface.
func (r *Recorder) Text(x, y float64, text string, font Font, color Color) {
	if text == "" {
		return
	}
	r.Ops = append(r.Ops, Op{Kind: "text", Page: r.page, X: x, Y: y, W: r.Measure(text, font), Text: text, Font: font, Color: color})
}

// Rect implements Surface.
func (r *Recorder) Rect(x, y, w, h float64, box Box) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Page: r.page, X: x, Y: y, W: w, H: h})
}

// Image implements Surface.
func (r *Recorder) Image(name string, data []byte, x, y, w float64) (float64, error) {
	img, err := NormalizeImage(data)
	if err != nil {
		return 0, err
	}
	h := w * float64(img.Height) / float64(img.Width)
	r.Ops = append(r.Ops, Op{Kind: "image", Page: r.page, X: x, Y: y, W: w, H: h, Text: name})
	return h, nil
}

// Code implements Surface.
func (r *Recorder) Code(kind CodeKind, content string, x, y, size float64) error {
	if content == "" {
		return ErrEmptyCode
	}
	r.Ops = append(r.Ops, Op{Kind: "code", Page: r.page, X: x, Y: y, W: size, H: size, Text: content})
	return nil
}

// SetInfo implements Surface.
func (r *Recorder) SetInfo(info Info) { r.Info = info }

// Output implements Surface. It writes one line per recorded operation.
func (r *Recorder) Output(w io.Writer) error {
	if r.Fail != nil {
		return r.Fail
	}
	if r.pages == 0 {
		return errors.New("render: no page has been added")
	}
	if _, err := fmt.Fprintf(w, "%%RECORDER pages=%d\n", r.pages); err != nil {
		return err
	}
	for _, op := range r.Ops {
		if _, err := fmt.Fprintf(w, "%d %s %.2f %.2f %q\n", op.Page, op.Kind, op.X, op.Y, op.Text); err != nil {
			return err
		}
	}
	return nil
}

// Err implements Surface.
func (r *Recorder) Err() error { return r.Fail }

// Texts returns the text operations recorded on page (all pages if page is 0).
func (r *Recorder) Texts(page int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == "text" && (page == 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}
