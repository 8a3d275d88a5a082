package docket

import (
	"regexp"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/parse"
)

// Magisterial district court dockets use a different case caption and a
// different charges table than CP/MC dockets, but the same overall layout
// of all-caps sections over fixed-width columns.
var (
	mdjDocketNumberPattern = regexp.MustCompile(
		`Docket Number:\s+(?P<docket_number>MJ-\d{5}-\D{2}-\d+-\d{4})`)

	mdjJudgePattern = regexp.MustCompile(
		`Magisterial District Judge\s+(?P<judge>.*)`)

	mdjCountyPattern = regexp.MustCompile(`County:\s+(?P<county>\w+)`)

	mdjDispositionDatePattern = regexp.MustCompile(
		`Disposition Date:\s+(?P<disposition_date>\d{1,2}/\d{1,2}/\d{4})`)

	// Column header labels of the MDJ charges table.
	mdjSeqHeaderPattern         = regexp.MustCompile(`#`)
	mdjStatuteHeaderPattern     = regexp.MustCompile(`Charge`)
	mdjGradeHeaderPattern       = regexp.MustCompile(`Grade`)
	mdjOffenseHeaderPattern     = regexp.MustCompile(`Description`)
	mdjDispositionHeaderPattern = regexp.MustCompile(`Disposition`)
)

// parseMDJCharges reads the CHARGES table of an MDJ docket. MDJ dockets
// carry the disposition in a column of the same table, so there is no
// second parsing pass to join against.
func parseMDJCharges(text string) ([]*crecord.Charge, []string) {
	var errs []string
	sections := findSections(text, "CHARGES")
	if len(sections) == 0 {
		errs = append(errs, "Could not find a CHARGES section.")
		return nil, errs
	}

	rows := newChargeRows()
	for _, lines := range sections {
		start := 0
		for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
			start++
		}
		if start >= len(lines) {
			continue
		}
		headerLine := lines[start]
		cols := parse.ColumnSpec{
			"sequence":    parse.FindIndexForPattern(mdjSeqHeaderPattern, headerLine),
			"statute":     parse.FindIndexForPattern(mdjStatuteHeaderPattern, headerLine),
			"grade":       parse.FindIndexForPattern(mdjGradeHeaderPattern, headerLine),
			"offense":     parse.FindIndexForPattern(mdjOffenseHeaderPattern, headerLine),
			"disposition": parse.FindIndexForPattern(mdjDispositionHeaderPattern, headerLine),
		}
		for _, line := range lines[start+1:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			rows.add(parse.MapLine(line, cols))
		}
	}

	charges := make([]*crecord.Charge, 0, len(rows.order))
	for _, seq := range rows.order {
		row := rows.rows[seq]
		charge := &crecord.Charge{
			Offense:     row["offense"],
			Grade:       row["grade"],
			Statute:     row["statute"],
			Disposition: row["disposition"],
		}
		if n := parse.IntOrNil(seq); n != nil {
			charge.Sequence = *n
		}
		charges = append(charges, charge)
	}
	return charges, errs
}

// parseMDJCase extracts the case-level fields of an MDJ docket.
func parseMDJCase(text string) (*crecord.Case, []string) {
	var errs []string
	kase := &crecord.Case{}

	if m, patErrs := parse.FindPattern("docket_number", mdjDocketNumberPattern, text); m != nil {
		kase.DocketNumber = m.Group("docket_number")
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("otn", otnPattern, text); m != nil {
		kase.OTN = m.Group("otn")
	} else {
		errs = append(errs, patErrs...)
	}

	charges, chargeErrs := parseMDJCharges(text)
	kase.Charges = charges
	errs = append(errs, chargeErrs...)

	if m, patErrs := parse.FindPattern("status", statusPattern, text); m != nil {
		kase.Status = strings.TrimSpace(m.Group("status"))
	} else {
		errs = append(errs, patErrs...)
	}

	// MDJ dockets caption the county in the court office block. Older
	// documents use the "of <county> COUNTY" caption instead.
	if m, _ := parse.FindPattern("county", mdjCountyPattern, text); m != nil {
		kase.County = m.Group("county")
	} else if m, patErrs := parse.FindPattern("county", countyPattern, text); m != nil {
		kase.County = m.Group("county")
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("complaint_date", complaintDatePattern, text); m != nil {
		raw := m.Group("complaint_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.ComplaintDate = d
		} else {
			errs = append(errs, "Found complaint date, but could not understand the date format: "+raw)
		}
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("arrest_date", arrestDatePattern, text); m != nil {
		raw := m.Group("arrest_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.ArrestDate = d
		} else {
			errs = append(errs, "Found arrest date but could not understand the date format: "+raw)
		}
	} else {
		errs = append(errs, patErrs...)
	}

	if m, _ := parse.FindPattern("disposition_date", mdjDispositionDatePattern, text); m != nil {
		raw := m.Group("disposition_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.DispositionDate = d
		} else {
			errs = append(errs, "Found disposition date, but could not understand date format: "+raw)
		}
	}

	if m, _ := parse.FindPattern("judge", mdjJudgePattern, text); m != nil {
		judge := strings.TrimSpace(m.Group("judge"))
		if !migratedPattern.MatchString(judge) {
			kase.Judge = judge
		}
	}

	if m, patErrs := parse.FindPattern("costs", costsPattern, text); m != nil {
		kase.TotalFines = parse.MoneyOrNil(m.Group("charged"))
		kase.FinesPaid = parse.MoneyOrNil(m.Group("paid"))
		if kase.TotalFines == nil || kase.FinesPaid == nil {
			errs = append(errs, "Found costs and fines, but could not convert to a number.")
		}
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("arresting_agency and officer", arrestingAgencyPattern, text); m != nil {
		kase.Affiant = strings.TrimSpace(m.Group("officer"))
		if kase.Affiant == "" || strings.Contains(kase.Affiant, "Affiant") {
			kase.Affiant = "Unknown Officer"
		}
		kase.ArrestingAgency = strings.TrimSpace(m.Group("agency"))
	} else {
		errs = append(errs, patErrs...)
	}

	return kase, errs
}

// ParseMDJText parses the text of a magisterial district court docket.
func ParseMDJText(text string) (*crecord.Person, []*crecord.Case, []string) {
	person, personErrs := parsePerson(text)
	kase, caseErrs := parseMDJCase(text)
	return person, []*crecord.Case{kase}, append(personErrs, caseErrs...)
}
