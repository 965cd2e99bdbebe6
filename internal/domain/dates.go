package domain

import "time"

// DateLayout is the ISO calendar-date form used for all prescription dates.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed zero-padded ISO date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders t as an ISO date string in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateInRange reports whether today falls inside [start, end], both ends
// inclusive. All three must be ISO date strings; lexicographic comparison is
// correct because the format is zero-padded.
func DateInRange(start, end, today string) bool {
	return start <= today && today <= end
}
