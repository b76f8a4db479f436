package dates

import "time"

const Layout = "2006-01-02"

// Today returns the current date at UTC midnight. Contract activity checks
// (end_date IS NULL OR end_date > today) compare date columns against this
// value, so the time component must stay zero.
func Today() time.Time {
	return Midnight(time.Now().UTC())
}

// Midnight truncates t to its UTC date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(Layout)
	return &s
}
