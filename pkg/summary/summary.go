// Package summary scans court summary sheets. A summary lists every case
// on a person's record, so it is the main source for discovering docket
// numbers that a portal search did not return.
package summary

import "regexp"

var (
	cpDocketPattern  = regexp.MustCompile(`(?:MC|CP)-\d{2}-\D{2}-\d*-\d{4}`)
	mdjDocketPattern = regexp.MustCompile(`MJ-\d{5}-\D{2}-\d+-\d{4}`)

	// A looser shape for documents where only the general form of a
	// docket number is known.
	looseDocketPattern = regexp.MustCompile(`(?:\w+-)+\d{4}`)
)

// DocketNumbers returns every docket number mentioned in the text, CP/MC
// and MJ alike, deduplicated in order of first appearance.
func DocketNumbers(text string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, pattern := range []*regexp.Regexp{cpDocketPattern, mdjDocketPattern} {
		for _, dn := range pattern.FindAllString(text, -1) {
			if !seen[dn] {
				seen[dn] = true
				found = append(found, dn)
			}
		}
	}
	return found
}

// LooseDocketNumbers matches anything shaped like a docket number, for
// documents whose court is not yet known.
func LooseDocketNumbers(text string) []string {
	return looseDocketPattern.FindAllString(text, -1)
}

// NewDocketNumbers returns the docket numbers in text that are not already
// in known, in order of first appearance.
func NewDocketNumbers(text string, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, dn := range known {
		knownSet[dn] = true
	}
	var fresh []string
	for _, dn := range DocketNumbers(text) {
		if !knownSet[dn] {
			fresh = append(fresh, dn)
		}
	}
	return fresh
}
