package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageWidth is the pixel width above which images are downscaled before
// embedding. A 30 mm logo never needs more.
const MaxImageWidth = 600

// Normalized is an image re-encoded for embedding.
type Normalized struct {
	PNG    []byte
	Width  int // pixels
	Height int // pixels
	Format string
}

// NormalizeImage decodes a PNG, JPEG, GIF, WebP, BMP or TIFF image and
// re-encodes it as an 8-bit PNG, downscaling images wider than MaxImageWidth.
func NormalizeImage(data []byte) (*Normalized, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render: decoding image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("render: empty %s image", format)
	}

	w, h := b.Dx(), b.Dy()
	if w > MaxImageWidth {
		h = h * MaxImageWidth / w
		if h == 0 {
			h = 1
		}
		w = MaxImageWidth
	}

	// NRGBA keeps alpha and caps the depth at 8 bits, the deepest the PDF
	// writer accepts.
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("render: encoding png: %w", err)
	}
	return &Normalized{PNG: buf.Bytes(), Width: w, Height: h, Format: format}, nil
}
