package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxNameLen bounds product names.
const MaxNameLen = 100

var (
	reName = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	// search terms are substrings of names, so the same alphabet applies
	reQ = regexp.MustCompile(`^[A-Za-z0-9]{1,100}$`)
)

// ProductName trims s and checks it is 1..100 ASCII letters/digits.
func ProductName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxNameLen {
		return "", false
	}
	return s, reName.MatchString(s)
}

// Q validates a name search term. Empty means "no filter".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reQ.MatchString(s)
}

// ID parses a positive product id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Qty parses a non-negative quantity.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// OptQty parses an optional non-negative quantity; "" yields nil.
func OptQty(s string) (*int, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	n, ok := Qty(s)
	if !ok {
		return nil, false
	}
	return &n, true
}

// OptBool parses an optional boolean; "" yields nil.
func OptBool(s string) (*bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, false
	}
	return &b, true
}

// Limit clamps a transaction listing size into [1, max]; n <= 0 means def.
func Limit(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if n > max {
		return max
	}
	return n
}
