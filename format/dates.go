package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var frMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Date formats t as DD/MM/YYYY.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// LongDate formats t as "12 janvier 2025"; the first of the month is "1er".
func LongDate(t time.Time) string {
	day := strconv.Itoa(t.Day())
	if t.Day() == 1 {
		day = "1er"
	}
	return fmt.Sprintf("%s %s %d", day, frMonths[t.Month()-1], t.Year())
}

// MonthYear formats t as "janvier 2025".
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", frMonths[t.Month()-1], t.Year())
}

// MonthsBetween counts calendar months from start to end, ignoring days.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// DurationYears expresses the span from start to end in years, with one
// decimal when it is not a whole number of years: 18 months -> "1,5".
// Non-positive spans yield "1".
func DurationYears(start, end time.Time) string {
	months := MonthsBetween(start, end)
	if months <= 0 {
		return "1"
	}
	if months%12 == 0 {
		return strconv.Itoa(months / 12)
	}
	s := strconv.FormatFloat(float64(months)/12, 'f', 1, 64)
	return strings.Replace(s, ".", ",", 1)
}
