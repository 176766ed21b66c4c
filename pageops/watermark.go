package pageops

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/immodoc/render"
)

// DuplicateText is the default watermark of a reissued document.
const DuplicateText = "DUPLICATA"

// TextWatermark defines a text-based watermark.
type TextWatermark struct {
	Text     string       // watermark text (default: DUPLICATA)
	FontSize float64      // font size in points (default: 60)
	Color    render.Color // text color (default: light gray)
	Opacity  float64      // 0.0 to 1.0 (default: 0.3)
	Angle    float64      // rotation angle in degrees (default: 45)
	Pages    []int        // 1-based pages to stamp; nil stamps every page
}

func (wm *TextWatermark) setDefaults() {
	if wm.Text == "" {
		wm.Text = DuplicateText
	}
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (render.Color{}) {
		wm.Color = render.Color{R: 200, G: 200, B: 200}
	}
}

// PageNumberStyle defines the appearance and position of page numbers.
type PageNumberStyle struct {
	Format   string       // fmt format receiving page and total, e.g. "Page %d / %d"
	Position Position     // where to place the number (default: BottomCenter)
	FontSize float64      // font size in points (default: 9)
	Color    render.Color // text color
	Margin   float64      // margin from the page edge in points (default: 28)
}

func (st *PageNumberStyle) setDefaults() {
	if st.Format == "" {
		st.Format = "Page %d / %d"
	}
	if st.FontSize == 0 {
		st.FontSize = 9
	}
	if st.Margin == 0 {
		st.Margin = 28
	}
}

// Stamp writes a copy of data with wm drawn across its pages.
func Stamp(w io.Writer, data []byte, wm TextWatermark) error {
	wm.setDefaults()
	stamp := make(map[int]bool, len(wm.Pages))
	for _, p := range wm.Pages {
		stamp[p] = true
	}

	pdf := newBase()
	err := appendDocument(pdf, data, func(page int, pw, ph float64) {
		if wm.Pages == nil || stamp[page] {
			drawTextWatermark(pdf, wm, pw, ph)
		}
	})
	if err != nil {
		return fmt.Errorf("pageops: watermark: %w", err)
	}
	return pdf.Output(w)
}

// StampFile stamps the document at inputPath and saves it to outputPath.
func StampFile(inputPath, outputPath string, wm TextWatermark) error {
	docs, err := readInputs([]string{inputPath})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Stamp(&buf, docs[0], wm); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("pageops: writing %s: %w", outputPath, err)
	}
	return nil
}

// drawTextWatermark renders the watermark text centered on the current page.
func drawTextWatermark(pdf *gofpdf.Fpdf, wm TextWatermark, pageW, pageH float64) {
	text := render.Encode(wm.Text)
	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	pdf.SetAlpha(wm.Opacity, "Normal")

	textW := pdf.GetStringWidth(text)
	cx, cy := pageW/2, pageH/2

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)
	pdf.Text(cx-textW/2, cy+wm.FontSize/3, text)
	pdf.TransformEnd()

	pdf.SetAlpha(1.0, "Normal")
}

// Number writes a copy of data with page numbers drawn on every page.
func Number(w io.Writer, data []byte, style PageNumberStyle) error {
	style.setDefaults()
	total, err := PageCount(data)
	if err != nil {
		return err
	}
	pdf := newBase()
	err = appendDocument(pdf, data, func(page int, pw, ph float64) {
		text := fmt.Sprintf(style.Format, page, total)
		pdf.SetFont("Helvetica", "", style.FontSize)
		pdf.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
		x, y := calculatePosition(style.Position, pw, ph, pdf.GetStringWidth(text), style.FontSize, style.Margin)
		pdf.Text(x, y, text)
	})
	if err != nil {
		return fmt.Errorf("pageops: page numbers: %w", err)
	}
	return pdf.Output(w)
}

// calculatePosition returns x, y coordinates for text placement.
func calculatePosition(pos Position, pageW, pageH, textW, textH, margin float64) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, margin + textH
	case TopCenter:
		return (pageW - textW) / 2, margin + textH
	case TopRight:
		return pageW - textW - margin, margin + textH
	case BottomLeft:
		return margin, pageH - margin
	case BottomRight:
		return pageW - textW - margin, pageH - margin
	case Center:
		return (pageW - textW) / 2, pageH / 2
	default: // BottomCenter
		return (pageW - textW) / 2, pageH - margin
	}
}
