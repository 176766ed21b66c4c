package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/format"
	"github.com/lvillar/immodoc/layout"
	"github.com/lvillar/immodoc/render"
	"github.com/lvillar/immodoc/settings"
	"github.com/lvillar/immodoc/table"
)

// Receipt mentions printed below the amount table.
var receiptMentions = []string{
	"NB 1 : Le locataire ne peut déménager sans avoir payé l'intégralité du loyer dû et effectué toutes les réparations à sa charge.",
	"NB 2 : La sous-location est strictement interdite.",
}

const (
	qrSize           = 25.0
	mentionLineH     = 5.0
	customFooterRise = 25.0
	maxFooterLines   = 3
	footerGap        = 2.0
)

// Amounts are the figures of a rent receipt.
type Amounts struct {
	Rent    decimal.Decimal
	Paid    decimal.Decimal
	Balance decimal.Decimal // rent minus paid, never negative
}

// ReceiptAmounts computes the amounts of payment.
func ReceiptAmounts(payment *Payment) Amounts {
	var rent decimal.Decimal
	if payment.Lease != nil {
		rent = payment.Lease.MonthlyRent
	}
	balance := rent.Sub(payment.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return Amounts{Rent: rent, Paid: payment.AmountPaid, Balance: balance}
}

// Receipt generates the rent receipt of payment.
func (e *Engine) Receipt(ctx context.Context, agencyID string, payment *Payment) (*Result, error) {
	if payment == nil {
		return nil, &immodoc.MissingInputError{Document: string(KindReceipt)}
	}
	var surname string
	if payment.Lease != nil {
		surname = payment.Lease.tenant().LastName
	}
	return e.generate(ctx, agencyID, &document{
		kind:      KindReceipt,
		title:     "Quittance Loyer",
		template:  doctpl.ReceiptTemplate,
		fontSize:  11,
		lineH:     6,
		bodyGap:   10,
		emptyBody: "Référence : " + e.receiptReference(payment),
		surname:   surname,
		fallback:  "locataire",
		vars: func(st *settings.Settings) doctpl.Vars {
			return e.ReceiptVars(payment, st)
		},
		header: func(p *page) error {
			e.drawReceiptCode(p, payment)
			return nil
		},
		after: func(p *page, c layout.Cursor) (layout.Cursor, error) {
			return e.drawReceiptTail(p, c, ReceiptAmounts(payment))
		},
	})
}

// ReceiptVars builds the template variables of a rent receipt.
func (e *Engine) ReceiptVars(payment *Payment, _ *settings.Settings) doctpl.Vars {
	tenantName, address := "—", "—"
	if payment.Lease != nil {
		if t := payment.Lease.Tenant; t != nil {
			tenantName = strings.TrimSpace(t.FirstName + " " + t.LastName)
		}
		if u := payment.Lease.Unit; u != nil && u.Building != nil && u.Building.Address != "" {
			address = u.Building.Address
		}
	}
	period := "—"
	if payment.Period.valid() {
		period = format.MonthYear(payment.Period.Time)
	}
	return doctpl.Vars{
		"reference":             e.receiptReference(payment),
		"date_paiement":         dateOr(payment.PaidOn, format.Date(e.now())),
		"locataire_nom_complet": tenantName,
		"adresse_logement":      address,
		"mois_concerne":         period,
	}
}

func (e *Engine) receiptReference(payment *Payment) string {
	if payment.Reference != "" {
		return payment.Reference
	}
	created := e.now()
	if payment.CreatedAt.valid() {
		created = payment.CreatedAt.Time
	}
	return format.InvoiceReference(created, payment.ID)
}

// drawReceiptCode draws the verification code in the top corner opposite
// the logo.
func (e *Engine) drawReceiptCode(p *page, payment *Payment) {
	if !p.st.ReceiptQRCode {
		return
	}
	vars := e.ReceiptVars(payment, p.st)
	content := strings.Join([]string{
		vars["reference"],
		vars["locataire_nom_complet"],
		format.Currency(payment.AmountPaid, p.st.Currency),
		vars["date_paiement"],
	}, "|")

	w, _ := p.s.PageSize()
	x := w - p.g.Margin - qrSize
	if p.st.LogoPosition == settings.LogoRight {
		x = p.g.Left()
	}
	if err := p.s.Code(render.CodeQR, content, x, logoTop, qrSize); err != nil {
		e.logger.Warn("receipt verification code skipped", zap.Error(err))
	}
}

// drawReceiptTail draws the amount table, the mentions and the custom
// footer below the receipt header.
func (e *Engine) drawReceiptTail(p *page, c layout.Cursor, amounts Amounts) (layout.Cursor, error) {
	bold := render.Font{Family: bodyFamily, Style: render.StyleBold, Size: 10}
	cur := p.st.Currency

	tbl := table.New(p.s)
	tbl.SetColumnWidths(0, 0)
	tbl.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(3),
		CellFont:    bold,
		Border:      &table.BorderStyle{Width: 0.1, Color: render.Color{R: 80, G: 80, B: 80}},
	})
	// Everything below the header stays clear of the custom footer.
	foot := newCustomFooter(p)
	g := foot.reserve(p.g)
	tbl.SetPageBreak(g, p.newPage)
	header := tbl.AddHeaderRow()
	header.AddCell("Libellé")
	header.AddCell("Montant")
	for _, r := range [][2]string{
		{"Montant du loyer", format.Currency(amounts.Rent, cur)},
		{"Montant payé", format.Currency(amounts.Paid, cur)},
		{"Reliquat (reste à payer)", format.Currency(amounts.Balance, cur)},
	} {
		row := tbl.AddRow()
		row.AddCell(r[0])
		row.AddCell(r[1])
	}

	// The table starts 10 mm below the last header baseline.
	c.Y += 10 - g.LineHeight
	c, err := layout.Reserve(c, 12, g, p.newPage)
	if err != nil {
		return c, err
	}
	if c, err = tbl.Render(c); err != nil {
		return c, fmt.Errorf("documents: receipt table: %w", err)
	}

	c.Y += 10
	if c, err = layout.Reserve(c, g.LineHeight, g, p.newPage); err != nil {
		return c, err
	}
	font := render.Font{Family: bodyFamily, Size: 11}
	p.s.Text(g.Left(), c.Y, "Mentions", font.WithStyle(render.StyleBold), render.Black)

	var lines []string
	for _, m := range receiptMentions {
		lines = append(lines, layout.Wrap("- "+m, g.UsableWidth(), func(t string) float64 {
			return p.s.Measure(t, font)
		})...)
	}
	mg := g
	mg.LineHeight = mentionLineH
	c, err = layout.Flow(lines, mg, layout.Cursor{Page: c.Page, Y: c.Y + 6}, layout.Hooks{
		NewPage: p.newPage,
		Line: func(y float64, line string) error {
			p.s.Text(mg.Left(), y, line, font, render.Black)
			return nil
		},
	})
	if err != nil {
		return c, err
	}

	foot.draw(p)
	return c, nil
}

// customFooter is the agency footer text drawn above the page number of
// the last receipt page.
type customFooter struct {
	lines []string
	top   float64 // first baseline
	lineH float64
	font  render.Font
}

// newCustomFooter wraps the footer text of p's settings. At most
// maxFooterLines are kept, and the block is raised so that its last line
// stays above the bottom limit.
func newCustomFooter(p *page) customFooter {
	f := customFooter{font: render.Font{Family: bodyFamily, Size: 9}}
	f.lineH = f.font.Size * 25.4 / 72 * 1.15
	text := strings.TrimSpace(p.st.CustomFooter)
	if text == "" {
		return f
	}
	f.lines = layout.Wrap(text, p.g.UsableWidth(), func(t string) float64 {
		return p.s.Measure(t, f.font)
	})
	if len(f.lines) > maxFooterLines {
		f.lines = f.lines[:maxFooterLines]
	}
	_, h := p.s.PageSize()
	f.top = h - customFooterRise
	if last := f.top + float64(len(f.lines)-1)*f.lineH; last > p.g.Limit() {
		f.top -= last - p.g.Limit()
	}
	return f
}

// reserve returns g with its bottom limit raised above the footer.
func (f customFooter) reserve(g layout.Geometry) layout.Geometry {
	if len(f.lines) == 0 {
		return g
	}
	if limit := f.top - f.lineH - footerGap; limit < g.Limit() {
		g.BottomMargin = g.PageHeight - limit
	}
	return g
}

func (f customFooter) draw(p *page) {
	for i, line := range f.lines {
		p.s.Text(p.g.Left(), f.top+float64(i)*f.lineH, line, f.font, render.Color{R: 100, G: 100, B: 100})
	}
}
