package immodoc

import (
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Option is a functional option for configuring a new PDF document via NewDocument.
type Option func(*documentConfig)

type documentConfig struct {
	orientation string
	unit        string
	size        string
	pageSize    gofpdf.SizeType
	fontDir     string
	compress    bool
	creator     string
	created     time.Time
}

// WithOrientation sets the default page orientation ("P" or "L").
func WithOrientation(orientation string) Option {
	return func(c *documentConfig) {
		c.orientation = orientation
	}
}

// WithUnit sets the measurement unit for page dimensions and drawing.
func WithUnit(unit string) Option {
	return func(c *documentConfig) {
		c.unit = unit
	}
}

// WithPageSize sets the default page size by name, e.g. "A4".
func WithPageSize(size string) Option {
	return func(c *documentConfig) {
		c.size = size
	}
}

// WithPageSizeCustom sets a custom default page size in the configured unit.
func WithPageSizeCustom(width, height float64) Option {
	return func(c *documentConfig) {
		c.pageSize = gofpdf.SizeType{Wd: width, Ht: height}
	}
}

// WithFontDir sets the directory where font files are located.
func WithFontDir(dir string) Option {
	return func(c *documentConfig) {
		c.fontDir = dir
	}
}

// WithCompression toggles stream compression. Compression is on by default.
func WithCompression(on bool) Option {
	return func(c *documentConfig) {
		c.compress = on
	}
}

// WithCreator sets the creator entry of the document information dictionary.
func WithCreator(creator string) Option {
	return func(c *documentConfig) {
		c.creator = creator
	}
}

// WithCreationDate fixes the creation date recorded in the document. Tests
// use it to obtain reproducible output.
func WithCreationDate(t time.Time) Option {
	return func(c *documentConfig) {
		c.created = t
	}
}

// NewDocument creates a new PDF document using functional options.
// If no options are specified, defaults to portrait A4 with millimeter units.
// Automatic page breaks are disabled: the layout engine decides where pages end.
//
// Example:
//
//	pdf := immodoc.NewDocument(
//	    immodoc.WithPageSize("A4"),
//	    immodoc.WithCreator("Gestion Locative"),
//	)
func NewDocument(opts ...Option) *gofpdf.Fpdf {
	cfg := &documentConfig{
		orientation: "P",
		unit:        "mm",
		size:        "A4",
		compress:    true,
		creator:     "immodoc",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: cfg.orientation,
		UnitStr:        cfg.unit,
		SizeStr:        cfg.size,
		Size:           cfg.pageSize,
		FontDirStr:     cfg.fontDir,
	})
	pdf.SetCompression(cfg.compress)
	pdf.SetCreator(cfg.creator, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
	}
	return pdf
}
