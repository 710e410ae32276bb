package normalize

import (
	"strings"
	"time"
)

// Date formats commonly seen on bills and EOB statements, including the
// two-digit-year variants OCR tends to produce.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"01-02-06",
	"1-2-06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate attempts to parse a free-form date substring in multiple
// common formats. Returns nil if the input is empty or unparseable;
// malformed input is an expected case, not a failure.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
