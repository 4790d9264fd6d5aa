package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gradesync/pkg/contracts/domain"
)

// ClassifyScore maps a raw grade cell to a typed score.
//
// Sentinel tokens are checked before numeric parsing. Numbers are passed
// through without range checks.
func ClassifyScore(raw string) domain.Score {
	s := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, `"`, "")))

	switch {
	case s == domain.TokenAbsent:
		return domain.Absent()
	case s == domain.TokenExcusedMedical:
		return domain.ExcusedMedical()
	case strings.Contains(s, domain.TokenPassed):
		return domain.Passed()
	}

	if v, ok := parseFinite(s); ok {
		return domain.Numeric(v)
	}
	return domain.NoScore()
}

var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseFinite parses the whole string as a finite decimal number. Go-only
// syntax such as "1_0" or hex floats is rejected.
func parseFinite(s string) (float64, bool) {
	if !decimalNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseAverage reads a subject average cell. The first comma is taken as the
// decimal separator and trailing garbage after the number is ignored.
func parseAverage(raw string) *float64 {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	m := leadingFloat.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseLeadingInt reads the integer prefix of s, e.g. "2 неделя" is 2
func parseLeadingInt(raw string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}
