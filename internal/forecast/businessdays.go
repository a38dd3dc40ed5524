package forecast

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BusinessDays selects which weekdays count as business days
type BusinessDays string

const (
	// MonSat excludes only Sunday
	MonSat BusinessDays = "mon-sat"
	// MonFri excludes Saturday and Sunday
	MonFri BusinessDays = "mon-fri"
)

// DefaultSalaryBusinessDay is the business day on which salaries are paid
const DefaultSalaryBusinessDay = 5

// ParseBusinessDays maps a stored profile setting to a mode.
// Anything other than "mon-fri" falls back to MonSat.
func ParseBusinessDays(s string) BusinessDays {
	if strings.EqualFold(strings.TrimSpace(s), string(MonFri)) {
		return MonFri
	}
	return MonSat
}

// ResolveBusinessDays applies per-item keywords found in a description,
// falling back to the profile default when none is present.
func ResolveBusinessDays(description string, profileDefault BusinessDays) BusinessDays {
	n := normalize(description)
	switch {
	case strings.Contains(n, "seg-sex"), strings.Contains(n, "5 dias"):
		return MonFri
	case strings.Contains(n, "seg-sab"), strings.Contains(n, "6 dias"):
		return MonSat
	}
	return profileDefault
}

func (b BusinessDays) isBusinessDay(wd time.Weekday) bool {
	switch wd {
	case time.Sunday:
		return false
	case time.Saturday:
		return b != MonFri
	}
	return true
}

// NthBusinessDay returns the day of month of the nth business day.
// If the month has fewer than n business days the last one is returned.
func NthBusinessDay(year int, month time.Month, n int, mode BusinessDays) int {
	if n < 1 {
		n = 1
	}
	count, last := 0, 1
	days := DaysInMonth(month, year)
	for day := 1; day <= days; day++ {
		wd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
		if !mode.isBusinessDay(wd) {
			continue
		}
		count++
		last = day
		if count == n {
			return day
		}
	}
	return last
}

// normalize strips diacritics and case-folds s
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
