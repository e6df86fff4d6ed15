package util

import "time"

// ParsePublishedDate reads the bibliographic date-string contract: the
// format is decided by length (YYYY, YYYY-MM, YYYY-MM-DD). Missing months
// and days default to 1. Malformed input yields nil, never an error.
func ParsePublishedDate(s string) *time.Time {
	var layout string
	switch {
	case len(s) == 4:
		layout = "2006"
	case len(s) == 7:
		layout = "2006-01"
	case len(s) >= 10:
		layout = "2006-01-02"
		s = s[:10]
	default:
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return &t
}
