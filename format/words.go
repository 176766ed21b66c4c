package format

import "strings"

var frUnits = [...]string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
	"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
}

var frTens = [...]string{"", "", "vingt", "trente", "quarante", "cinquante", "soixante"}

// Words spells n in French using traditional spelling:
// 71 -> "soixante et onze", 80 -> "quatre-vingts", 200000 -> "deux cent mille".
func Words(n int64) string {
	if n == 0 {
		return frUnits[0]
	}
	if n < 0 {
		return "moins " + Words(-n)
	}

	var parts []string
	scales := []struct {
		value    int64
		singular string
		plural   string
	}{
		{1_000_000_000, "un milliard", "milliards"},
		{1_000_000, "un million", "millions"},
	}
	for _, sc := range scales {
		if q := n / sc.value; q > 0 {
			if q == 1 {
				parts = append(parts, sc.singular)
			} else {
				parts = append(parts, Words(q)+" "+sc.plural)
			}
			n %= sc.value
		}
	}
	if q := n / 1000; q > 0 {
		if q == 1 {
			parts = append(parts, "mille")
		} else {
			// "mille" is invariable and freezes the plural of cent and vingt.
			parts = append(parts, hundreds(int(q), false)+" mille")
		}
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, hundreds(int(n), true))
	}
	return strings.Join(parts, " ")
}

// hundreds spells 1..999. final reports whether the number ends the amount,
// which is when "cents" and "quatre-vingts" take their plural.
func hundreds(n int, final bool) string {
	h, r := n/100, n%100
	var s string
	switch {
	case h == 1:
		s = "cent"
	case h > 1:
		s = frUnits[h] + " cent"
		if r == 0 && final {
			s += "s"
		}
	}
	if r == 0 {
		return s
	}
	if s != "" {
		s += " "
	}
	return s + tens(r, final)
}

// tens spells 1..99.
func tens(n int, final bool) string {
	switch {
	case n < 17:
		return frUnits[n]
	case n < 20:
		return "dix-" + frUnits[n-10]
	case n < 70:
		t, u := frTens[n/10], n%10
		switch u {
		case 0:
			return t
		case 1:
			return t + " et un"
		}
		return t + "-" + frUnits[u]
	case n < 80:
		if n == 71 {
			return "soixante et onze"
		}
		return "soixante-" + tens(n-60, final)
	default:
		if n == 80 {
			if final {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + tens(n-80, final)
	}
}
