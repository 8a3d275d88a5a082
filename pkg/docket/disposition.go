package docket

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/parse"
)

var (
	// One disposition event on one line: sequence, offense, disposition,
	// grade and statute separated by wide columnar gaps.
	dispositionChargePattern = regexp.MustCompile(
		`(?P<sequence>\d+)\s+/\s+(?P<offense>.+?)\s{12,}(?P<disposition>\w.+?)\s{12,}(?P<grade>\w{0,2})\s+(?P<statute>\w{1,2}\s?§\s?\d+(?:-|§|\w+)*)`)

	// A wrapped tail of a long offense description on the following line.
	offenseOverflowPattern = regexp.MustCompile(`(?i)^\s+(?P<offense_overflow>\w+\s*\w*)\s*$`)

	// An event line carrying a disposition date, e.g.
	// "    Plea   Guilty Plea       02/01/2010   Final Disposition".
	dispositionDatePattern = regexp.MustCompile(`^\s*(?:\S+\s)+\s+(?P<disposition_date>\d{2}/\d{2}/\d{4}).*$`)
)

// parseDispositionSection reads the DISPOSITION SENTENCING/PENALTIES
// section(s). Each charge appears as a dense one-line record, optionally
// followed by a wrapped offense line, then by one or more event lines
// carrying dates. A docket records the full amendment history of a charge,
// so the last date line before the next charge is the one that stands, and
// the history of events per sequence number reduces to the final event.
func parseDispositionSection(text string) (map[int]*crecord.Charge, []string) {
	var errs []string
	sections := findSections(text, "DISPOSITION SENTENCING/PENALTIES")
	if len(sections) == 0 {
		errs = append(errs, "Could not find the disposition/sentencing section.")
		return map[int]*crecord.Charge{}, errs
	}

	var events []*crecord.Charge
	for _, lines := range sections {
		for idx := 0; idx < len(lines); idx++ {
			m, _ := parse.FindPattern("charge_line", dispositionChargePattern, lines[idx])
			if m == nil {
				continue
			}

			offense := strings.TrimSpace(m.Group("offense"))
			cursor := idx
			if cursor+1 < len(lines) {
				if over, _ := parse.FindPattern("offense_overflow", offenseOverflowPattern, lines[cursor+1]); over != nil {
					offense += " " + strings.TrimSpace(over.Group("offense_overflow"))
					cursor++
				}
			}

			charge := &crecord.Charge{
				Offense:     offense,
				Grade:       m.Group("grade"),
				Statute:     m.Group("statute"),
				Disposition: strings.TrimSpace(m.Group("disposition")),
			}
			if n := parse.IntOrNil(m.Group("sequence")); n != nil {
				charge.Sequence = *n
			}

			// A charge may have several successive event lines with
			// dates; the last one is the operative disposition date.
			var lastDate string
			for next := cursor + 1; next < len(lines); next++ {
				dm, _ := parse.FindPattern("disposition_date", dispositionDatePattern, lines[next])
				if dm == nil {
					break
				}
				lastDate = dm.Group("disposition_date")
			}
			if lastDate != "" {
				charge.DispositionDate = parse.DateOrNil(lastDate)
				if charge.DispositionDate == nil {
					errs = append(errs, fmt.Sprintf(
						"For the offense, %d/ %s, we found, but could not parse, the disposition date: %s",
						charge.Sequence, offense, lastDate))
				}
			}
			events = append(events, charge)
		}
	}

	reduced := crecord.ReduceCharges(events)
	charges := make(map[int]*crecord.Charge, len(reduced))
	for _, c := range reduced {
		charges[c.Sequence] = c
		if c.DispositionDate == nil {
			errs = append(errs, fmt.Sprintf(
				"Could not find disposition date for %d / %s with disposition %s",
				c.Sequence, c.Offense, c.Disposition))
		}
	}
	return charges, errs
}

// mergeChargePasses joins the charges-table rows with the disposition
// events by sequence number. A charge only one pass saw is kept as-is; a
// charge both passes saw is combined field by field, the disposition
// pass supplying disposition data and the table pass filling in statute,
// grade and offense where the disposition pass was blank.
func mergeChargePasses(fromTable, fromDisposition map[int]*crecord.Charge) []*crecord.Charge {
	var sequences []int
	seen := make(map[int]bool)
	for seq := range fromTable {
		sequences = append(sequences, seq)
		seen[seq] = true
	}
	for seq := range fromDisposition {
		if !seen[seq] {
			sequences = append(sequences, seq)
		}
	}
	sort.Ints(sequences)

	merged := make([]*crecord.Charge, 0, len(sequences))
	for _, seq := range sequences {
		merged = append(merged, crecord.CombineCharges(fromTable[seq], fromDisposition[seq]))
	}
	return merged
}

// parseCharges runs both charge passes over the docket text and joins the
// results.
func parseCharges(text string) ([]*crecord.Charge, []string) {
	fromTable, errs := parseChargesSection(text)
	fromDisposition, moreErrs := parseDispositionSection(text)
	errs = append(errs, moreErrs...)
	return mergeChargePasses(fromTable, fromDisposition), errs
}
