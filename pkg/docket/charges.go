package docket

import (
	"regexp"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/parse"
)

// Column header labels of the fixed-width CHARGES table. The header row is
// searched for each label to learn where the columns start; the columns
// drift between documents, so the offsets cannot be hard-coded.
var (
	seqHeaderPattern     = regexp.MustCompile(`Seq\.`)
	gradeHeaderPattern   = regexp.MustCompile(`Grade`)
	statuteHeaderPattern = regexp.MustCompile(`Statute`)
	offenseHeaderPattern = regexp.MustCompile(`Statute Description`)
	otnHeaderPattern     = regexp.MustCompile(`OTN`)
)

// chargeRows is an ordered map of charge table rows keyed by sequence
// number. The join-by-sequence invariant runs through the whole parser:
// rows, disposition events, and the final merge all key on the court's
// per-case charge index.
type chargeRows struct {
	order []string
	rows  map[string]map[string]string
}

func newChargeRows() *chargeRows {
	return &chargeRows{rows: make(map[string]map[string]string)}
}

// add places one mapped table line. A line with a blank sequence column is
// a continuation of the previous charge: the PDF wraps long offense
// descriptions onto following lines, which come through with every other
// column blank. Continuation text extends the previous row's values.
func (cr *chargeRows) add(mapped map[string]string) {
	seq := mapped["sequence"]
	if seq == "" {
		if len(cr.order) == 0 {
			return
		}
		last := cr.rows[cr.order[len(cr.order)-1]]
		for key, val := range mapped {
			if val == "" {
				continue
			}
			if last[key] == "" {
				last[key] = val
			} else {
				last[key] = last[key] + " " + val
			}
		}
		return
	}
	if _, seen := cr.rows[seq]; !seen {
		cr.order = append(cr.order, seq)
	}
	cr.rows[seq] = mapped
}

// parseChargesSection reads the CHARGES table(s) of a docket. The header
// row locates the column offsets; every following row is column-mapped.
// The result is keyed by sequence number for the later join with the
// disposition section; a row whose sequence column cannot be read as a
// number is reported and dropped rather than joined under a wrong key.
func parseChargesSection(text string) (map[int]*crecord.Charge, []string) {
	var errs []string
	sections := findSections(text, "CHARGES")
	if len(sections) == 0 {
		errs = append(errs, "Could not find a CHARGES section.")
		return map[int]*crecord.Charge{}, errs
	}

	rows := newChargeRows()
	for _, lines := range sections {
		// Skip any blank lines between the section header and the
		// table's own header row.
		start := 0
		for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
			start++
		}
		if start >= len(lines) {
			continue
		}
		headerLine := lines[start]
		cols := parse.ColumnSpec{
			"sequence": parse.FindIndexForPattern(seqHeaderPattern, headerLine),
			"grade":    parse.FindIndexForPattern(gradeHeaderPattern, headerLine),
			"statute":  parse.FindIndexForPattern(statuteHeaderPattern, headerLine),
			"offense":  parse.FindIndexForPattern(offenseHeaderPattern, headerLine),
			"otn":      parse.FindIndexForPattern(otnHeaderPattern, headerLine),
		}
		for _, line := range lines[start+1:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			rows.add(parse.MapLine(line, cols))
		}
	}

	charges := make(map[int]*crecord.Charge, len(rows.order))
	for _, seq := range rows.order {
		row := rows.rows[seq]
		n := parse.IntOrNil(seq)
		if n == nil {
			errs = append(errs, "Could not parse the sequence number: "+seq)
			continue
		}
		charges[*n] = &crecord.Charge{
			Sequence: *n,
			Offense:  row["offense"],
			Grade:    row["grade"],
			Statute:  row["statute"],
		}
	}
	return charges, errs
}
