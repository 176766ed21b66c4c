package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPDFOutput(t *testing.T) {
	p := NewPDF()
	p.SetInfo(Info{Title: "Quittance", Author: "Gestion Locative"})
	p.AddPage()
	font := Font{Family: "Helvetica", Size: 11}
	p.Text(14, 20, "Référence : FAC-202501-ABCDEF12", font, Black)
	p.Rect(5, 5, 200, 287, Box{LineWidth: 0.5, Stroke: &Black})
	p.AddPage()
	p.SetPage(1)
	p.Text(90, 287, "Page 1 / 2", Font{Size: 9}, Gray)

	if err := p.Err(); err != nil {
		t.Fatalf("drawing failed: %v", err)
	}
	if p.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", p.PageCount())
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
}

func TestPDFMeasureDependsOnStyle(t *testing.T) {
	p := NewPDF()
	normal := p.Measure("Montant payé", Font{Size: 11})
	bold := p.Measure("Montant payé", Font{Size: 11, Style: StyleBold})
	if normal <= 0 || bold <= normal {
		t.Fatalf("widths normal=%.2f bold=%.2f, want 0 < normal < bold", normal, bold)
	}
	if p.Measure("abc", Font{Size: 22}) <= p.Measure("abc", Font{Size: 11}) {
		t.Fatal("width does not grow with font size")
	}
}

func TestPDFImageAndCode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 245, G: 130, B: 32, A: 255})
	}

	p := NewPDF()
	p.AddPage()
	h, err := p.Image("logo", pngBytes(t, img), 14, 10, 30)
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if h < 14.99 || h > 15.01 {
		t.Fatalf("image height = %.2f, want 15", h)
	}

	if _, err := p.Image("bad", []byte("not an image"), 14, 10, 30); err == nil {
		t.Fatal("expected error for invalid image")
	}
	if err := p.Err(); err != nil {
		t.Fatalf("invalid image poisoned the document: %v", err)
	}

	if err := p.Code(CodeQR, "FAC-202501-ABCDEF12|Diop|150000|15/01/2025", 170, 10, 25); err != nil {
		t.Fatalf("Code(QR) failed: %v", err)
	}
	if err := p.Code(CodeQR, "  ", 170, 10, 25); err != ErrEmptyCode {
		t.Fatalf("Code(empty) error = %v, want ErrEmptyCode", err)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"é", "\xe9"},
		{"€", "\x80"},
		{"150\u00a0000", "150 000"},
		{"1\u202f000", "1 000"},
		{"日本", "??"},
	}
	for _, tt := range tests {
		if got := Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeImage(t *testing.T) {
	// 16-bit source images must come out 8-bit.
	deep := image.NewNRGBA64(image.Rect(0, 0, 10, 5))
	n, err := NormalizeImage(pngBytes(t, deep))
	if err != nil {
		t.Fatalf("NormalizeImage failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(n.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ColorModel != color.NRGBAModel && cfg.ColorModel != color.RGBAModel {
		t.Fatalf("unexpected color model %v", cfg.ColorModel)
	}

	wide := image.NewRGBA(image.Rect(0, 0, 1200, 300))
	var jbuf bytes.Buffer
	if err := jpeg.Encode(&jbuf, wide, nil); err != nil {
		t.Fatal(err)
	}
	n, err = NormalizeImage(jbuf.Bytes())
	if err != nil {
		t.Fatalf("NormalizeImage failed: %v", err)
	}
	if n.Width != MaxImageWidth || n.Height != 150 || n.Format != "jpeg" {
		t.Fatalf("got %dx%d %s, want %dx150 jpeg", n.Width, n.Height, n.Format, MaxImageWidth)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.AddPage()
	r.AddPage()
	r.SetPage(1)
	r.Text(10, 10, "abc", Font{Size: 10}, Black)
	r.SetPage(5) // out of range, ignored
	r.Text(10, 20, "", Font{Size: 10}, Black)

	if got := r.Measure("abc", Font{Size: 10}); got < 5.99 || got > 6.01 {
		t.Fatalf("Measure = %.2f, want 6", got)
	}
	if got := r.Measure("abc", Font{Size: 10, Style: StyleBold}); got < 6.59 || got > 6.61 {
		t.Fatalf("bold Measure = %.2f, want 6.6", got)
	}
	texts := r.Texts(0)
	if len(texts) != 1 || texts[0].Page != 1 {
		t.Fatalf("recorded texts = %+v", texts)
	}

	var buf bytes.Buffer
	if err := r.Output(&buf); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%RECORDER pages=2")) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestCentered(t *testing.T) {
	r := NewRecorder()
	x := Centered(r, "abcde", Font{Size: 10}) // 10 mm wide
	if x != 100 {
		t.Fatalf("Centered = %.2f, want 100", x)
	}
}
