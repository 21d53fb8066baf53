// canonicalization rules used when matching externally produced
// data (CSV exports, hand-edited files) back against the catalog.
// all functions are total: nil-ish or malformed input yields the
// zero value, never a panic.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// matches YYYY-MM-DD exactly
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// matches YYYY/M/D or YYYY-M-D with 1-2 digit month/day
var looseDateRe = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})$`)

// canonical text form for matching: trimmed, full-width spaces
// folded, internal whitespace runs (including line breaks)
// collapsed to a single space. idempotent.
func Text(s string) string {
	// strings.Fields splits on unicode whitespace, which covers
	// U+3000 as well as \r\n
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// folds full-width digits (U+FF10 - U+FF19) to their ascii
// equivalents; every other rune passes through unchanged.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}

// parses a raw score value into the 1-5 domain. returns nil for
// anything outside it: fractional, out of range, non-numeric,
// empty. full-width numerals and whitespace padding are accepted.
func Score(raw string) *int {
	cleaned := strings.TrimSpace(Digits(raw))
	if cleaned == "" {
		return nil
	}
	// parse as float so "3.5" is recognised and rejected as
	// fractional rather than truncated
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	if float64(n) != f {
		return nil
	}
	if n < 1 || n > 5 {
		return nil
	}
	return &n
}

// normalizes a date to YYYY-MM-DD. already-canonical input passes
// through; YYYY/M/D and YYYY-M-D variants are zero-padded;
// anything else yields "" as an explicit unparseable signal.
func Date(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isoDateRe.MatchString(trimmed) {
		return trimmed
	}
	m := looseDateRe.FindStringSubmatch(trimmed)
	if m == nil {
		return ""
	}
	month := m[2]
	if len(month) == 1 {
		month = "0" + month
	}
	day := m[3]
	if len(day) == 1 {
		day = "0" + day
	}
	return m[1] + "-" + month + "-" + day
}
