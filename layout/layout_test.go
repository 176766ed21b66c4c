package layout

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/render"
)

// runeWidth measures one unit per rune.
func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapWidthInvariant(t *testing.T) {
	body := "Le présent contrat est consenti pour une durée de deux ans, commençant à courir le 01/02/2025 " +
		"et se terminant le 31/01/2027 sous réserve de reconduction ou de renouvellement.\n" +
		"Anticonstitutionnellementissime mot.\n\nFin"
	const width = 20

	lines := Wrap(body, width, runeWidth)
	for _, l := range lines {
		if runeWidth(l) > width && strings.Contains(l, " ") {
			t.Errorf("line %q is %v wide, exceeds %d", l, runeWidth(l), width)
		}
	}

	var found bool
	for _, l := range lines {
		if l == "Anticonstitutionnellementissime" {
			found = true
		}
	}
	if !found {
		t.Fatalf("oversized word was not emitted alone: %q", lines)
	}
	if lines[len(lines)-2] != "" || lines[len(lines)-1] != "Fin" {
		t.Fatalf("empty paragraph not preserved: %q", lines)
	}
}

func TestWrapRejoinsToParagraph(t *testing.T) {
	par := "un deux trois quatre cinq six sept huit neuf dix"
	lines := Wrap(par, 12, runeWidth)
	if got := strings.Join(lines, " "); got != par {
		t.Fatalf("joined = %q, want %q", got, par)
	}
	if len(lines) < 4 {
		t.Fatalf("expected several lines, got %q", lines)
	}
}

func TestWrapKeepsSpaceRuns(t *testing.T) {
	lines := Wrap("Le Locataire        Le Mandataire\r\n\tfin", 80, runeWidth)
	want := []string{"Le Locataire        Le Mandataire", "    fin"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("Wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapDropsSpacesAtBreak(t *testing.T) {
	lines := Wrap("abcd    efgh", 6, runeWidth)
	want := []string{"abcd", "efgh"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("Wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowPagination(t *testing.T) {
	g := Geometry{PageWidth: 210, PageHeight: 270, Margin: 14, BottomMargin: 20, LineHeight: 7, ContinuationTop: 25}
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "ligne"
	}

	newPages := 0
	perPage := map[int]int{}
	page := 1
	lastY := 0.0
	var emitted int

	end, err := Flow(lines, g, Cursor{Page: 1, Y: 25}, Hooks{
		NewPage: func() error {
			newPages++
			page++
			lastY = 0
			return nil
		},
		Line: func(y float64, line string) error {
			if y > g.Limit() {
				t.Fatalf("line emitted at y=%.1f below limit %.1f", y, g.Limit())
			}
			if y < lastY {
				t.Fatalf("y decreased within a page: %.1f after %.1f", y, lastY)
			}
			if perPage[page] == 0 && page > 1 && y != g.ContinuationTop {
				t.Fatalf("first line of page %d at y=%.1f, want %.1f", page, y, g.ContinuationTop)
			}
			lastY = y
			perPage[page]++
			emitted++
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Flow failed: %v", err)
	}
	if emitted != 200 {
		t.Fatalf("emitted %d lines, want 200", emitted)
	}
	if newPages != 6 {
		t.Fatalf("NewPage called %d times, want 6", newPages)
	}
	if perPage[1] != 32 {
		t.Fatalf("first page holds %d lines, want 32", perPage[1])
	}
	if end.Page != 7 {
		t.Fatalf("final page = %d, want 7", end.Page)
	}
}

func TestFlowPropagatesHookErrors(t *testing.T) {
	g := A4(7)
	boom := errors.New("boom")
	_, err := Flow([]string{"a", "b"}, g, Cursor{Y: 30}, Hooks{
		Line: func(float64, string) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := A4(7).Validate(); err != nil {
		t.Fatalf("A4 geometry invalid: %v", err)
	}

	bad := []Geometry{
		{PageWidth: 28, PageHeight: 297, Margin: 14, BottomMargin: 20, LineHeight: 7, ContinuationTop: 25},
		{PageWidth: 210, PageHeight: 297, Margin: 14, BottomMargin: 20, LineHeight: 0, ContinuationTop: 25},
		{PageWidth: 210, PageHeight: 297, Margin: 14, BottomMargin: 20, LineHeight: 7, ContinuationTop: 280},
		{PageWidth: 0, PageHeight: 297, Margin: 14, BottomMargin: 20, LineHeight: 7, ContinuationTop: 25},
	}
	for i, g := range bad {
		err := g.Validate()
		var ce *immodoc.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("case %d: error = %v, want ConfigurationError", i, err)
		}
		if _, ferr := Flow([]string{"x"}, g, Cursor{Y: 30}, Hooks{}); !errors.Is(ferr, immodoc.ErrConfiguration) {
			t.Errorf("case %d: Flow error = %v, want ErrConfiguration", i, ferr)
		}
	}
}

func TestReserve(t *testing.T) {
	g := A4(7)
	called := 0
	c, err := Reserve(Cursor{Page: 1, Y: 270}, 10, g, func() error { called++; return nil })
	if err != nil {
		t.Fatal(err)
	}
	if called != 1 || c.Page != 2 || c.Y != g.ContinuationTop {
		t.Fatalf("Reserve = %+v after %d new pages", c, called)
	}

	c, _ = Reserve(Cursor{Page: 1, Y: 100}, 10, g, func() error { called++; return nil })
	if called != 1 || c.Y != 100 {
		t.Fatalf("Reserve moved a block that fits: %+v", c)
	}
}

func TestSpansOverlapPrefersEarliestRegistered(t *testing.T) {
	got := Spans("M. Jean Dupont est locataire", []string{"Jean", "Jean Dupont"})
	want := []Span{
		{Text: "M. ", Style: render.StyleNormal},
		{Text: "Jean", Style: render.StyleBold},
		{Text: " Dupont est locataire", Style: render.StyleNormal},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Spans mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansLeftmostMatchWins(t *testing.T) {
	got := Spans("Loyer 150 000 F CFA payé par Diop", []string{"Diop", "150 000 F CFA", ""})
	want := []Span{
		{Text: "Loyer ", Style: render.StyleNormal},
		{Text: "150 000 F CFA", Style: render.StyleBold},
		{Text: " payé par ", Style: render.StyleNormal},
		{Text: "Diop", Style: render.StyleBold},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Spans mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansConservation(t *testing.T) {
	cases := []struct {
		line       string
		emphasized []string
	}{
		{"", []string{"a"}},
		{"aaaa", []string{"a", "aa"}},
		{"Fait à Dakar, le 12/01/2025", []string{"Dakar", "12/01/2025"}},
		{"rien à signaler", nil},
		{"éèê ü", []string{"è", "ü"}},
	}
	for _, tc := range cases {
		var b strings.Builder
		for _, sp := range Spans(tc.line, tc.emphasized) {
			b.WriteString(sp.Text)
		}
		if b.String() != tc.line {
			t.Errorf("spans of %q rebuild %q", tc.line, b.String())
		}
	}
}

func TestDrawLineAdvancesByStyledWidth(t *testing.T) {
	r := render.NewRecorder()
	r.AddPage()
	font := render.Font{Family: "Helvetica", Size: 10}

	end := DrawLine(r, 14, 40, "Nom : Diop", []string{"Diop"}, font, render.Black)

	texts := r.Texts(1)
	if len(texts) != 2 {
		t.Fatalf("recorded %d text ops, want 2", len(texts))
	}
	if texts[0].Text != "Nom : " || texts[0].Font.Style != render.StyleNormal {
		t.Fatalf("first span = %+v", texts[0])
	}
	if texts[1].Text != "Diop" || texts[1].Font.Style != render.StyleBold {
		t.Fatalf("second span = %+v", texts[1])
	}
	wantX := 14 + r.Measure("Nom : ", font)
	if texts[1].X != wantX {
		t.Fatalf("bold span at x=%.2f, want %.2f", texts[1].X, wantX)
	}
	if wantEnd := wantX + r.Measure("Diop", font.WithStyle(render.StyleBold)); end != wantEnd {
		t.Fatalf("end x = %.2f, want %.2f", end, wantEnd)
	}
}
