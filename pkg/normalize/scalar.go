package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

var leadingInt = regexp.MustCompile(`^[-+]?[0-9]+`)

// stringify renders a decoded JSON scalar as a string. Objects and
// arrays render as "" so scalar call sites treat them as absent.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// hasValue reports whether v carries a usable scalar value.
func hasValue(v interface{}) bool {
	return strings.TrimSpace(stringify(v)) != ""
}

// parseLeadingInt extracts the integer prefix of v's string form
// ("12 pts" parses as 12). The second return is false when no integer
// prefix exists.
func parseLeadingInt(v interface{}) (int, bool) {
	s := strings.TrimSpace(stringify(v))
	digits := leadingInt.FindString(s)
	if digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CoerceInt turns any value into a non-negative integer. Unparsable and
// negative inputs floor to 0.
func CoerceInt(v interface{}) int {
	n, ok := parseLeadingInt(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// CoercePointsPerColumn snaps any value onto the {40, 60} enum. Only an
// exact parse of 60 yields 60; everything else, including garbage, is 40.
func CoercePointsPerColumn(v interface{}) int {
	if n, ok := parseLeadingInt(v); ok && n == 60 {
		return 60
	}
	return 40
}

// TeamLetter normalizes a team designator to "A" or "B". Anything else
// yields "", which rejects the containing composite.
func TeamLetter(v interface{}) string {
	s := strings.ToUpper(strings.TrimSpace(stringify(v)))
	if s == "A" || s == "B" {
		return s
	}
	return ""
}

// CleanString trims v and filters field-name echoes. The second return
// is false when the value is unusable and the caller should keep its
// default.
func CleanString(field string, v interface{}) (string, bool) {
	if IsEcho(field, v) {
		return "", false
	}
	return strings.TrimSpace(stringify(v)), true
}

// CanonicalDate reformats s to YYYY-MM-DD when it parses as a date in
// any common layout; unparseable values pass through untouched so
// normalization stays total.
func CanonicalDate(s string) string {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
