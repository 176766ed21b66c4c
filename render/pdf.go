package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
	"golang.org/x/text/encoding/charmap"

	"github.com/lvillar/immodoc"
)

// ErrEmptyCode is returned by Code when there is nothing to encode.
var ErrEmptyCode = errors.New("render: empty barcode content")

// PDF is a Surface backed by a gofpdf document using the standard core fonts.
// Text is converted to Windows-1252, the encoding of the core fonts.
type PDF struct {
	pdf    *gofpdf.Fpdf
	stale  bool // font selection must be re-emitted on the current page
	images map[string]*gofpdf.ImageInfoType
}

// NewPDF creates an empty A4 portrait document in millimetres.
func NewPDF(opts ...immodoc.Option) *PDF {
	return &PDF{
		pdf:    immodoc.NewDocument(opts...),
		images: make(map[string]*gofpdf.ImageInfoType),
	}
}

// Fpdf exposes the underlying document for operations not covered by Surface.
func (p *PDF) Fpdf() *gofpdf.Fpdf { return p.pdf }

// PageSize implements Surface.
func (p *PDF) PageSize() (float64, float64) {
	return p.pdf.GetPageSize()
}

// AddPage implements Surface.
func (p *PDF) AddPage() {
	p.pdf.AddPage()
	p.stale = true
}

// SetPage implements Surface.
func (p *PDF) SetPage(n int) {
	p.pdf.SetPage(n)
	p.stale = true
}

// PageCount implements Surface.
func (p *PDF) PageCount() int {
	return p.pdf.PageCount()
}

// Measure implements Surface.
func (p *PDF) Measure(text string, font Font) float64 {
	p.useFont(font)
	return p.pdf.GetStringWidth(Encode(text))
}

// Text implements Surface.
func (p *PDF) Text(x, y float64, text string, font Font, color Color) {
	if text == "" {
		return
	}
	p.useFont(font)
	p.pdf.SetTextColor(color.R, color.G, color.B)
	p.pdf.Text(x, y, Encode(text))
}

// Rect implements Surface.
func (p *PDF) Rect(x, y, w, h float64, box Box) {
	style := ""
	if box.Fill != nil {
		p.pdf.SetFillColor(box.Fill.R, box.Fill.G, box.Fill.B)
		style += "F"
	}
	if box.Stroke != nil {
		if box.LineWidth > 0 {
			p.pdf.SetLineWidth(box.LineWidth)
		}
		p.pdf.SetDrawColor(box.Stroke.R, box.Stroke.G, box.Stroke.B)
		style += "D"
	}
	if style == "" {
		return
	}
	p.pdf.Rect(x, y, w, h, style)
}

// Image implements Surface. Images are normalized to PNG before they reach
// the document so that a malformed file never poisons its error state.
func (p *PDF) Image(name string, data []byte, x, y, w float64) (float64, error) {
	info, ok := p.images[name]
	if !ok {
		img, err := NormalizeImage(data)
		if err != nil {
			return 0, err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		info = p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.PNG))
		if err := p.pdf.Error(); err != nil {
			return 0, fmt.Errorf("render: registering image %s: %w", name, err)
		}
		p.images[name] = info
	}
	h := w * info.Height() / info.Width()
	p.pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return h, nil
}

// Code implements Surface.
func (p *PDF) Code(kind CodeKind, content string, x, y, size float64) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyCode
	}
	var key string
	switch kind {
	case CodeQR:
		// Encode once up front: a failure inside the contrib package would
		// leave the document in an error state.
		if _, err := qr.Encode(content, qr.M, qr.Auto); err != nil {
			return fmt.Errorf("render: encoding QR code: %w", err)
		}
		key = barcode.RegisterQR(p.pdf, content, qr.M, qr.Auto)
	case CodePDF417:
		key = barcode.RegisterPdf417(p.pdf, content, 10, 2)
	default:
		return fmt.Errorf("render: unknown code kind %d", kind)
	}
	barcode.Barcode(p.pdf, key, x, y, size, size, false)
	return p.pdf.Error()
}

// SetInfo implements Surface.
func (p *PDF) SetInfo(info Info) {
	if info.Title != "" {
		p.pdf.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		p.pdf.SetAuthor(info.Author, true)
	}
	if info.Subject != "" {
		p.pdf.SetSubject(info.Subject, true)
	}
}

// Output implements Surface.
func (p *PDF) Output(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("render: writing pdf: %w", err)
	}
	return nil
}

// Err implements Surface.
func (p *PDF) Err() error {
	return p.pdf.Error()
}

func (p *PDF) useFont(f Font) {
	family := f.Family
	if family == "" {
		family = "Helvetica"
	}
	style := ""
	if f.Style == StyleBold {
		style = "B"
	}
	if p.stale {
		// gofpdf skips a SetFont equal to its cached state, which may not
		// match the font last emitted on a revisited page.
		p.pdf.SetFont(family, style, f.Size+1)
		p.stale = false
	}
	p.pdf.SetFont(family, style, f.Size)
}

// Encode converts UTF-8 text to the Windows-1252 bytes expected by the PDF
// core fonts. Narrow and regular no-break spaces become plain spaces and
// characters outside the code page become '?'.
func Encode(s string) string {
	enc := charmap.Windows1252
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00a0', '\u202f', '\u2009':
			b.WriteByte(' ')
			continue
		}
		if c, ok := enc.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
