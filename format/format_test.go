package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"150000", "XOF", "150 000 F CFA"},
		{"0", "XOF", "0 F CFA"},
		{"1234567.6", "EUR", "1 234 568 €"},
		{"999", "USD", "999 $"},
		{"2500", "xof", "2 500 F CFA"},
		{"75000", "GBP", "75 000"},
	}
	for _, tt := range tests {
		got := Currency(decimal.RequireFromString(tt.amount), tt.code)
		if got != tt.want {
			t.Errorf("Currency(%s, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "zéro"},
		{1, "un"},
		{17, "dix-sept"},
		{21, "vingt et un"},
		{71, "soixante et onze"},
		{72, "soixante-douze"},
		{80, "quatre-vingts"},
		{81, "quatre-vingt-un"},
		{91, "quatre-vingt-onze"},
		{100, "cent"},
		{200, "deux cents"},
		{201, "deux cent un"},
		{1000, "mille"},
		{80000, "quatre-vingt mille"},
		{150000, "cent cinquante mille"},
		{200000, "deux cent mille"},
		{1000000, "un million"},
		{2500000, "deux millions cinq cent mille"},
		{3000000000, "trois milliards"},
		{-5, "moins cinq"},
	}
	for _, tt := range tests {
		if got := Words(tt.n); got != tt.want {
			t.Errorf("Words(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDates(t *testing.T) {
	d := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "12/01/2025" {
		t.Errorf("Date = %q", got)
	}
	if got := LongDate(d); got != "12 janvier 2025" {
		t.Errorf("LongDate = %q", got)
	}
	if got := LongDate(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)); got != "1er août 2025" {
		t.Errorf("LongDate(first) = %q", got)
	}
	if got := MonthYear(d); got != "janvier 2025" {
		t.Errorf("MonthYear = %q", got)
	}
}

func TestDurationYears(t *testing.T) {
	start := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		end  time.Time
		want string
	}{
		{time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC), "2"},
		{time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), "1,5"},
		{start, "1"},
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "1"},
	}
	for _, tt := range tests {
		if got := DurationYears(start, tt.end); got != tt.want {
			t.Errorf("DurationYears(%s) = %q, want %q", tt.end.Format("2006-01"), got, tt.want)
		}
	}
}

func TestInvoiceReference(t *testing.T) {
	created := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	if got := InvoiceReference(created, "3f2a9c1e-77b0-4c1d-9e8f-000000000001"); got != "FAC-202503-3F2A9C1E" {
		t.Errorf("InvoiceReference = %q", got)
	}
	if got := InvoiceReference(created, ""); got != "FAC-202503-XXXXXX" {
		t.Errorf("InvoiceReference(empty) = %q", got)
	}
}

func TestSurname(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Diop", "Diop"},
		{"Ndiaye Sall", "Ndiaye-Sall"},
		{"Sène/../x", "Sènex"},
		{"  ", "locataire"},
	}
	for _, tt := range tests {
		if got := Surname(tt.in, "locataire"); got != tt.want {
			t.Errorf("Surname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
