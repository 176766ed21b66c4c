package documents

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/lvillar/immodoc/layout"
	"github.com/lvillar/immodoc/render"
	"github.com/lvillar/immodoc/settings"
)

const bodyFamily = "Helvetica"

// Frame dimensions, in millimetres.
const (
	borderInset   = 5.0
	borderWidth   = 0.5
	logoTop       = 10.0
	logoWidth     = 30.0
	minTitleY     = 15.0
	footerOffset  = 10.0
	signatureW    = 40.0
	titleFontSize = 16.0
)

var (
	titleFont  = render.Font{Family: bodyFamily, Style: render.StyleBold, Size: titleFontSize}
	footerFont = render.Font{Family: bodyFamily, Size: 9}
)

// drawBorder frames the current page.
func drawBorder(s render.Surface) {
	w, h := s.PageSize()
	s.Rect(borderInset, borderInset, w-2*borderInset, h-2*borderInset,
		render.Box{LineWidth: borderWidth, Stroke: &render.Black})
}

// drawFrame adds the first page with its border, the agency logo and the
// centered title, and returns the title baseline.
func (e *Engine) drawFrame(p *page, title string) float64 {
	p.s.AddPage()
	drawBorder(p.s)

	titleY := logoTop
	if len(p.logo) > 0 {
		w, _ := p.s.PageSize()
		x := p.g.Left()
		switch p.st.LogoPosition {
		case settings.LogoCenter:
			x = (w - logoWidth) / 2
		case settings.LogoRight:
			x = w - p.g.Margin - logoWidth
		}
		h, err := p.s.Image("logo", p.logo, x, logoTop, logoWidth)
		if err != nil {
			e.logger.Warn("logo could not be drawn", zap.Error(err))
		} else {
			titleY = logoTop + h + 5
		}
	}
	titleY = math.Max(titleY, minTitleY)

	color := render.Black
	if rgb, err := settings.ParseColor(p.st.PrimaryColor); err == nil {
		color = render.Color{R: rgb.R, G: rgb.G, B: rgb.B}
	}
	p.s.Text(render.Centered(p.s, title, titleFont), titleY, title, titleFont, color)
	return titleY
}

// drawFooters writes "Page i / N" at the bottom of every page.
func drawFooters(s render.Surface) {
	n := s.PageCount()
	_, h := s.PageSize()
	for i := 1; i <= n; i++ {
		s.SetPage(i)
		text := fmt.Sprintf("Page %d / %d", i, n)
		s.Text(render.Centered(s, text, footerFont), h-footerOffset, text, footerFont, render.Gray)
	}
}

// drawSignature places the agency signature image at the right margin below
// the body. A missing or broken image is skipped.
func (e *Engine) drawSignature(p *page, c layout.Cursor) {
	data := e.fetchAsset(p.ctx, e.logger, "signature", p.st.SignatureURL)
	if len(data) == 0 {
		return
	}
	// Reserve a square area; most signatures are wider than tall.
	c, err := layout.Reserve(c, signatureW, p.g, p.newPage)
	if err != nil {
		e.logger.Warn("no room for signature", zap.Error(err))
		return
	}
	w, _ := p.s.PageSize()
	if _, err := p.s.Image("signature", data, w-p.g.Margin-signatureW, c.Y, signatureW); err != nil {
		e.logger.Warn("signature could not be drawn", zap.Error(err))
	}
}
