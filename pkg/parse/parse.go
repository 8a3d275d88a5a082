// Package parse provides the low-level field extractors used by the docket
// parsers: labeled regex searches, columnar line mapping, and permissive
// date/money coercions.
//
// Nothing in this package returns a Go error. Parsing a court document is
// best-effort everywhere: a miss is reported as a human-readable diagnostic
// string and the caller carries on with whatever was found.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/types"
)

// Match wraps a successful regex search, exposing named capture groups.
type Match struct {
	groups map[string]string
}

// Group returns the text captured by the named group, or "" if the group
// did not participate in the match.
func (m *Match) Group(name string) string {
	if m == nil {
		return ""
	}
	return m.groups[name]
}

// FindPattern searches text for pattern. On a miss it returns a nil Match
// plus a diagnostic of the form "Could not find {label}". It never fails
// any harder than that.
func FindPattern(label string, pattern *regexp.Regexp, text string) (*Match, []string) {
	loc := pattern.FindStringSubmatch(text)
	if loc == nil {
		return nil, []string{"Could not find " + label}
	}
	groups := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if name != "" && i < len(loc) {
			groups[name] = loc[i]
		}
	}
	return &Match{groups: groups}, nil
}

// FindIndexForPattern returns the character offset of the first occurrence
// of pattern in text, or -1 if the pattern is absent.
func FindIndexForPattern(pattern *regexp.Regexp, text string) int {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// WordStartingNear returns the word or short phrase beginning near character
// column col in a line of columnar text. PDF-to-text conversion drifts the
// columns by a character or two, so the search window runs from col-leading
// to col+trailing. Words separated by one or two spaces are treated as a
// single phrase; three or more spaces end the phrase (the next column).
//
// Returns "" when no non-whitespace text starts inside the window.
//
// Example, for the line "   The word      is pizza":
// column 4 yields "The word" and column 18 yields "is pizza".
func WordStartingNear(col int, line string) string {
	return WordStartingNearWindow(col, line, 1, 1)
}

var wordPattern = func(trailing int) *regexp.Regexp {
	return regexp.MustCompile(`^\s{0,` + strconv.Itoa(trailing) + `}(\S+\s{0,2})*`)
}

// WordStartingNearWindow is WordStartingNear with an explicit tolerance
// window.
func WordStartingNearWindow(col int, line string, leading, trailing int) string {
	start := col - leading
	if start < 0 {
		start = 0
	}
	if start > len(line) {
		return ""
	}
	m := wordPattern(trailing).FindString(line[start:])
	return strings.TrimSpace(m)
}

// ColumnSpec names the character offset of each column in a fixed-width
// table, as located from the table's header row.
type ColumnSpec map[string]int

// MapLine extracts each named column's value from one line of columnar
// text. Values are returned raw; callers coerce the columns they need typed
// (and keep the raw value when coercion fails).
func MapLine(line string, cols ColumnSpec) map[string]string {
	mapped := make(map[string]string, len(cols))
	for name, idx := range cols {
		if idx < 0 {
			mapped[name] = ""
			continue
		}
		mapped[name] = WordStartingNear(idx, line)
	}
	return mapped
}

// DateOrNil parses a docket-style MM/DD/YYYY date, returning nil rather
// than an error on malformed input.
func DateOrNil(s string) *types.Date {
	d, err := types.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &d
}

// MoneyOrNil parses a dollar amount like "1,234.56", returning nil rather
// than an error on malformed input.
func MoneyOrNil(s string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// IntOrNil parses an integer column value, returning nil on anything that
// is not a plain number.
func IntOrNil(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
