// Package documents generates the rental documents of an agency: the lease
// contract, the rent receipt and the management mandate.
//
// Each orchestrator builds the variables of its template from a domain
// record and the agency settings, lays out the substituted body with its
// inserted values in bold, numbers the pages and hands the PDF to an
// exporter. Template and drawing failures yield a minimal degraded document
// instead of an error.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/export"
	"github.com/lvillar/immodoc/layout"
	"github.com/lvillar/immodoc/render"
	"github.com/lvillar/immodoc/settings"
)

// Kind identifies a document type. Its value prefixes generated file names.
type Kind string

const (
	KindContract Kind = "contrat"
	KindReceipt  Kind = "facture"
	KindMandate  Kind = "mandat"
)

// ParseKind accepts a Kind value or its English name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contrat", "contract":
		return KindContract, nil
	case "facture", "receipt", "quittance":
		return KindReceipt, nil
	case "mandat", "mandate":
		return KindMandate, nil
	}
	return "", fmt.Errorf("documents: unknown document kind %q", s)
}

// UnavailableText is the body of the fallback document.
const UnavailableText = "Contenu du document indisponible."

// Result is a generated document.
type Result struct {
	Kind     Kind
	FileName string
	Pages    int
	Data     []byte
	// Location is set when an exporter stored the document.
	Location *export.Stored
	// Degraded reports that the fallback document was produced.
	Degraded bool
}

// SettingsSource provides agency settings and never fails.
type SettingsSource interface {
	Get(ctx context.Context, agencyID string) *settings.Settings
}

// AssetSource fetches branding images referenced by the settings.
type AssetSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Engine generates documents. It is safe for concurrent use when its
// collaborators are.
type Engine struct {
	templates  doctpl.Store
	settings   SettingsSource
	assets     AssetSource
	exporter   export.Exporter
	logger     *zap.Logger
	now        func() time.Time
	newSurface func() render.Surface
	geometry   layout.Geometry
}

// Option configures an Engine.
type Option func(*Engine)

// WithTemplates sets the template store. The default serves the embedded
// templates.
func WithTemplates(s doctpl.Store) Option {
	return func(e *Engine) { e.templates = s }
}

// WithSettings sets the agency settings source. The default always uses
// settings.Default().
func WithSettings(s SettingsSource) Option {
	return func(e *Engine) { e.settings = s }
}

// WithAssets sets the source of logo and signature images. Without one,
// documents carry no images.
func WithAssets(a AssetSource) Option {
	return func(e *Engine) { e.assets = a }
}

// WithExporter stores every generated document.
func WithExporter(x export.Exporter) Option {
	return func(e *Engine) { e.exporter = x }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the time source used for dates and file names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSurfaceFactory sets the constructor of drawing surfaces. The default
// creates gofpdf documents.
func WithSurfaceFactory(f func() render.Surface) Option {
	return func(e *Engine) { e.newSurface = f }
}

// WithGeometry overrides the page geometry. The line height of g is
// replaced by the one of each document type.
func WithGeometry(g layout.Geometry) Option {
	return func(e *Engine) { e.geometry = g }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		templates:  doctpl.NewFSStore(""),
		settings:   settings.NewFallback(nil, nil),
		logger:     zap.NewNop(),
		now:        time.Now,
		newSurface: func() render.Surface { return render.NewPDF() },
		geometry:   layout.A4(7),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// document describes how one document type is laid out.
type document struct {
	kind      Kind
	title     string
	template  string
	fontSize  float64
	lineH     float64
	bodyGap   float64 // distance from the title baseline to the first line
	emptyBody string
	surname   string
	fallback  string // file name part when surname is empty
	vars      func(st *settings.Settings) doctpl.Vars
	signature bool // draw the agency signature below the body
	// header draws on the first page after the title.
	header func(p *page) error
	// after continues below the body and returns the final cursor.
	after func(p *page, c layout.Cursor) (layout.Cursor, error)
}

// page carries the state shared by the drawing steps of one document.
type page struct {
	ctx      context.Context
	s        render.Surface
	g        layout.Geometry
	st       *settings.Settings
	logo     []byte
	emphasis []string
	titleY   float64
}

// newPage appends a continuation page with its border.
func (p *page) newPage() error {
	p.s.AddPage()
	drawBorder(p.s)
	return p.s.Err()
}

// generate runs the pipeline shared by every document type.
func (e *Engine) generate(ctx context.Context, agencyID string, d *document) (*Result, error) {
	g := e.geometry
	g.LineHeight = d.lineH
	if err := g.Validate(); err != nil {
		return nil, err
	}

	st := e.settings.Get(ctx, agencyID)
	logger := e.logger.With(zap.String("document", string(d.kind)), zap.String("agency_id", agencyID))
	logo := e.fetchAsset(ctx, logger, "logo", st.LogoURL)

	res := &Result{Kind: d.kind}
	data, pages, err := e.draw(ctx, d, g, st, logo)
	if cerr := ctx.Err(); cerr != nil {
		return nil, fmt.Errorf("documents: %s abandoned: %w", d.kind, cerr)
	}
	if err != nil {
		if errors.Is(err, immodoc.ErrConfiguration) {
			return nil, err
		}
		logger.Error("document generation failed, producing fallback", zap.Error(err))
		data, pages, err = e.fallback(d, st)
		if err != nil {
			return nil, fmt.Errorf("documents: %s fallback: %w", d.kind, err)
		}
		res.Degraded = true
	}

	created := e.now()
	res.Data = data
	res.Pages = pages
	res.FileName = export.FileName(string(d.kind), d.surname, d.fallback, created)

	if e.exporter != nil {
		stored, err := e.exporter.Save(ctx, &export.Artifact{
			AgencyID: agencyID,
			FileName: res.FileName,
			Data:     data,
			Created:  created,
		})
		if err != nil {
			return nil, fmt.Errorf("documents: exporting %s: %w", res.FileName, err)
		}
		res.Location = stored
	}

	logger.Info("document generated",
		zap.String("file", res.FileName),
		zap.Int("pages", res.Pages),
		zap.Int("size", len(data)),
		zap.Bool("degraded", res.Degraded))
	return res, nil
}

// draw renders the full document and returns its encoded bytes.
func (e *Engine) draw(ctx context.Context, d *document, g layout.Geometry, st *settings.Settings, logo []byte) ([]byte, int, error) {
	tpl, err := e.templates.Fetch(ctx, d.template)
	if err != nil {
		return nil, 0, err
	}
	sub := doctpl.Substitute(tpl, d.vars(st))
	body := sub.Body
	if strings.TrimSpace(body) == "" {
		body = d.emptyBody
	}

	s := e.newSurface()
	s.SetInfo(render.Info{Title: d.title, Author: st.AgencyName, Subject: d.surname})
	p := &page{ctx: ctx, s: s, g: g, st: st, logo: logo, emphasis: sub.Emphasized}
	p.titleY = e.drawFrame(p, d.title)

	if d.header != nil {
		if err := d.header(p); err != nil {
			return nil, 0, err
		}
	}

	font := render.Font{Family: bodyFamily, Size: d.fontSize}
	lines := layout.Wrap(body, g.UsableWidth(), func(t string) float64 {
		return s.Measure(t, font)
	})
	c, err := layout.Flow(lines, g, layout.Cursor{Page: 1, Y: p.titleY + d.bodyGap}, layout.Hooks{
		NewPage: p.newPage,
		Line: func(y float64, line string) error {
			layout.DrawLine(s, g.Left(), y, line, p.emphasis, font, render.Black)
			return nil
		},
	})
	if err != nil {
		return nil, 0, err
	}

	if d.after != nil {
		if c, err = d.after(p, c); err != nil {
			return nil, 0, err
		}
	}
	if d.signature {
		e.drawSignature(p, c)
	}

	drawFooters(s)
	return encode(s)
}

// fallback renders the single-line document used when generation fails.
func (e *Engine) fallback(d *document, st *settings.Settings) ([]byte, int, error) {
	s := e.newSurface()
	s.SetInfo(render.Info{Title: d.title, Author: st.AgencyName})
	p := &page{s: s, g: e.geometry, st: st}
	titleY := e.drawFrame(p, d.title)
	s.Text(p.g.Left(), titleY+10, UnavailableText, render.Font{Family: bodyFamily, Size: 11}, render.Black)
	drawFooters(s)
	return encode(s)
}

func encode(s render.Surface) ([]byte, int, error) {
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), s.PageCount(), nil
}

// fetchAsset loads a branding image, logging and ignoring failures.
func (e *Engine) fetchAsset(ctx context.Context, logger *zap.Logger, what, ref string) []byte {
	if e.assets == nil || strings.TrimSpace(ref) == "" {
		return nil
	}
	data, err := e.assets.Fetch(ctx, ref)
	if err != nil {
		logger.Warn("branding image unavailable", zap.String("asset", what), zap.String("ref", ref), zap.Error(err))
		return nil
	}
	return data
}
