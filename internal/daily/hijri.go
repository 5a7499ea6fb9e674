package daily

import (
	"fmt"
	"time"
)

// julianDay converts a Gregorian date to its Julian day number using
// the Fliegel-Van Flandern formula. Divisions truncate toward zero.
func julianDay(year, month, day int) int {
	return (1461*(year+4800+(month-14)/12))/4 +
		(367*(month-2-12*((month-14)/12)))/12 -
		(3*((year+4900+(month-14)/12)/100))/4 +
		day - 32075
}

// HijriDate approximates the Islamic calendar date for a Gregorian day
// using the tabular (Kuwaiti) algorithm. Accurate to within a day or
// two of the observed calendar, which is enough for a display string.
func HijriDate(t time.Time) string {
	t = t.UTC()
	jd := julianDay(t.Year(), int(t.Month()), t.Day())

	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30

	return fmt.Sprintf("%d-%02d-%02d", year, month, day)
}
