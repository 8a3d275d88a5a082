package docket

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/parse"
)

var (
	cpDocketNumberPattern = regexp.MustCompile(
		`Docket Number:\s+(?P<docket_number>(MC|CP)-\d{2}-\D{2}-\d*-\d{4})`)

	otnPattern = regexp.MustCompile(`OTN:\s+(?P<otn>\D\s?\d+(?:-\d)?)`)

	// The Totals row of the CASE FINANCIAL INFORMATION table. Credits are
	// printed negative, as -$n or ($n).
	costsPattern = regexp.MustCompile(
		`Totals:\s+\$(?P<charged>[\d,]+\.\d{2})\s+` +
			`-?\(?\$(?P<paid>[\d,]+\.\d{2})\)?\s+-?\(?\$` +
			`(?P<adjusted>[\d,]+\.\d{2})\)?\s+-?\(?\$(?:[\d,]+` +
			`\.\d{2})\)?\s+-?\(?\$(?P<total>[\d,]+\.\d{2})\)?`)

	statusPattern = regexp.MustCompile(`(?i)case status:\s+(?P<status>(?:\w+\s)+)`)

	countyPattern = regexp.MustCompile(`(?i)\sof\s(?P<county>\w+)\sCOUNTY`)

	complaintDatePattern = regexp.MustCompile(
		`Complaint Date:\s+(?P<complaint_date>\d{1,2}/\d{1,2}/\d{4})`)

	arrestDatePattern = regexp.MustCompile(
		`Arrest Date:\s+(?P<arrest_date>\d{1,2}/\d{1,2}/\d{4})`)

	// A case-level disposition date only counts when the calendar event is
	// marked Final Disposition.
	caseDispositionDatePattern = regexp.MustCompile(
		`(?:Plea|Status|Status of Restitution|Status - Community Court|` +
			`Status Listing|Migrated Dispositional Event|Trial|Preliminary Hearing|` +
			`Pre-Trial Conference)\s+(?P<disposition_date>\d{1,2}/\d{1,2}/\d{4})\s+` +
			`Final Disposition`)

	judgeAssignedPattern = regexp.MustCompile(
		`Judge Assigned:\s+(?P<judge_assigned>.*)\s+(?:Date Filed|Issue Date):`)

	// A long judge name wraps onto the line below the assignment line.
	judgeOverflowPattern = regexp.MustCompile(
		`(?m)Judge Assigned:\s+(?P<judge_assigned>.*)\s+(?:Date Filed|Issue Date):.*\n^\s+(?P<judge_overflow>\w+\s*\w*)\s*$`)

	finalIssuingAuthorityPattern = regexp.MustCompile(
		`Final Issuing Authority:\s+(?P<judge_name>.*)`)

	dcPattern = regexp.MustCompile(`District Control Number\s+(?P<dc>\d+)`)

	arrestingAgencyPattern = regexp.MustCompile(
		`Arresting Agency:\s+(?P<agency>.*)\s+Arresting Officer: (?P<officer>\D+)`)

	migratedPattern = regexp.MustCompile(`(?i)migrated`)
)

// parseCase extracts the case-level fields of a CP or MC docket.
func parseCase(text string) (*crecord.Case, []string) {
	var errs []string
	kase := &crecord.Case{}

	if m, patErrs := parse.FindPattern("docket_number", cpDocketNumberPattern, text); m != nil {
		kase.DocketNumber = m.Group("docket_number")
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("otn", otnPattern, text); m != nil {
		kase.OTN = m.Group("otn")
	} else {
		errs = append(errs, patErrs...)
	}

	charges, chargeErrs := parseCharges(text)
	kase.Charges = charges
	errs = append(errs, chargeErrs...)

	if m, patErrs := parse.FindPattern("costs", costsPattern, text); m != nil {
		kase.TotalFines = parse.MoneyOrNil(m.Group("charged"))
		kase.FinesPaid = parse.MoneyOrNil(m.Group("paid"))
		if kase.TotalFines == nil || kase.FinesPaid == nil {
			errs = append(errs, "Found costs and fines, but could not convert to a number.")
		}
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("status", statusPattern, text); m != nil {
		kase.Status = strings.TrimSpace(m.Group("status"))
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("county", countyPattern, text); m != nil {
		kase.County = m.Group("county")
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("complaint_date", complaintDatePattern, text); m != nil {
		raw := m.Group("complaint_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.ComplaintDate = d
		} else {
			errs = append(errs, fmt.Sprintf(
				"Found complaint date, but could not understand the date format: %s", raw))
		}
	} else {
		errs = append(errs, patErrs...)
	}

	if m, patErrs := parse.FindPattern("arrest_date", arrestDatePattern, text); m != nil {
		raw := m.Group("arrest_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.ArrestDate = d
		} else {
			errs = append(errs, fmt.Sprintf(
				"Found arrest date but could not understand the date format: %s", raw))
		}
	} else {
		errs = append(errs, patErrs...)
	}

	// A missing case disposition date is not an error. The case may
	// simply not be disposed yet.
	if m, _ := parse.FindPattern("disposition_date", caseDispositionDatePattern, text); m != nil {
		raw := m.Group("disposition_date")
		if d := parse.DateOrNil(raw); d != nil {
			kase.DispositionDate = d
		} else {
			errs = append(errs, fmt.Sprintf(
				"Found disposition date, but could not understand date format: %s", raw))
		}
	}

	// The judge's name can appear in two places. The Judge Assigned field
	// is checked first; a non-migrated Final Issuing Authority then takes
	// precedence over it.
	if m, patErrs := parse.FindPattern("judge_assigned", judgeAssignedPattern, text); m != nil {
		judge := strings.TrimSpace(m.Group("judge_assigned"))
		if over, _ := parse.FindPattern("judge_overflow_info", judgeOverflowPattern, text); over != nil {
			judge += " " + strings.TrimSpace(over.Group("judge_overflow"))
		}
		if migratedPattern.MatchString(judge) {
			judge = ""
		}
		kase.Judge = judge
	} else {
		errs = append(errs, patErrs...)
	}

	if m, _ := parse.FindPattern("final_issuing_authority", finalIssuingAuthorityPattern, text); m != nil {
		judge := strings.TrimSpace(m.Group("judge_name"))
		if judge != "" && !migratedPattern.MatchString(judge) {
			kase.Judge = judge
		}
	}

	// The District Control Number is rare enough that its absence is not
	// worth recording as an error.
	if m, _ := parse.FindPattern("dc", dcPattern, text); m != nil {
		kase.DC = m.Group("dc")
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
