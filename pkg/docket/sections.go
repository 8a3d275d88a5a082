// Package docket parses the text of court docket sheets into Person and
// Case values. It covers Common Pleas / Municipal Court dockets (CP-/MC-
// docket numbers) and magisterial district court dockets (MJ-).
//
// Parsing is best-effort throughout: every sub-parser returns whatever it
// could extract plus a list of diagnostic strings for what it could not.
// A missing field is never fatal to the whole parse.
package docket

import (
	"regexp"
	"strings"
)

// section headers appear in dockets as a line of capitals, e.g.
// "DEFENDANT INFORMATION" or "DISPOSITION SENTENCING/PENALTIES".
var sectionBoundary = regexp.MustCompile(`^[A-Z/ ]+$`)

func isSectionBoundary(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if !sectionBoundary.MatchString(trimmed) {
		return false
	}
	return strings.ContainsAny(trimmed, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

// findSections walks the document line by line looking for sections named
// header. It is a three-state scan: seeking the header line, accumulating
// the section body, and emitting the section when the next all-caps header
// line appears. A docket that overflows pages can contain the same section
// several times, so all occurrences are returned.
//
// A section that runs to end of document without a terminating header line
// is discarded, matching how these documents are laid out: every page ends
// with an all-caps footer, so a missing terminator means the section start
// was a false positive.
func findSections(text, header string) [][]string {
	var sections [][]string
	var current []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		if !inSection {
			if strings.TrimSpace(line) == header {
				inSection = true
				current = nil
			}
			continue
		}
		if isSectionBoundary(line) {
			sections = append(sections, current)
			inSection = false
			// The boundary may itself start the next section we want.
			if strings.TrimSpace(line) == header {
				inSection = true
				current = nil
			}
			continue
		}
		current = append(current, line)
	}

	return sections
}
