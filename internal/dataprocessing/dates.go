package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dateFullYear  = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})$`)
	dateShortYear = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{2})$`)
	dateNoYear    = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})$`)
)

// NormalizeDate converts D.M.YYYY, D.M.YY and D.M (dots or slashes) into
// YYYY-MM-DD. Two-digit years are read as 20YY and a missing year is the
// current one. Anything else is returned trimmed but otherwise unchanged.
func NormalizeDate(raw string) string {
	return normalizeDate(raw, time.Now().Year())
}

func normalizeDate(raw string, currentYear int) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := dateFullYear.FindStringSubmatch(s); m != nil {
		return isoDate(m[3], m[2], m[1])
	}
	if m := dateShortYear.FindStringSubmatch(s); m != nil {
		return isoDate("20"+m[3], m[2], m[1])
	}
	if m := dateNoYear.FindStringSubmatch(s); m != nil {
		return isoDate(fmt.Sprintf("%d", currentYear), m[2], m[1])
	}

	return s
}

func isoDate(year, month, day string) string {
	return year + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
