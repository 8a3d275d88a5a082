package crecord

import (
	"strings"

	"github.com/coolbeans/recordscreen/pkg/types"
)

// MergeStrategy selects how a newly parsed case is reconciled with an
// existing case carrying the same docket number.
type MergeStrategy string

const (
	// StrategyOverwriteOld replaces the existing case entirely with the
	// new parse.
	StrategyOverwriteOld MergeStrategy = "overwrite_old"

	// StrategyMoreComplete reconciles field by field, preferring non-blank
	// values, and on conflict the side with more populated fields.
	StrategyMoreComplete MergeStrategy = "keep_more_complete"
)

// Case is one court case. DocketNumber is the canonical identity key used
// when merging source records.
type Case struct {
	DocketNumber    string      `json:"docket_number"`
	OTN             string      `json:"otn"`
	County          string      `json:"county"`
	Status          string      `json:"status"`
	Judge           string      `json:"judge"`
	Affiant         string      `json:"affiant"`
	ArrestingAgency string      `json:"arresting_agency"`
	ComplaintDate   *types.Date `json:"complaint_date,omitempty"`
	ArrestDate      *types.Date `json:"arrest_date,omitempty"`
	DispositionDate *types.Date `json:"disposition_date,omitempty"`
	TotalFines      *float64    `json:"total_fines,omitempty"`
	FinesPaid       *float64    `json:"fines_paid,omitempty"`
	DC              string      `json:"dc"`
	Charges         []*Charge   `json:"charges"`
}

// FinesOwed reports whether the case still has unpaid fines. Unknown
// amounts are treated as nothing owed.
func (c *Case) FinesOwed() bool {
	if c.TotalFines == nil {
		return false
	}
	paid := 0.0
	if c.FinesPaid != nil {
		paid = *c.FinesPaid
	}
	return *c.TotalFines-paid > 0
}

// LastSentenceCompleteDate returns the latest sentence-complete date across
// the case's charges, or nil when no sentence has a computable end.
func (c *Case) LastSentenceCompleteDate() *types.Date {
	var latest *types.Date
	for _, charge := range c.Charges {
		for i := range charge.Sentences {
			end := charge.Sentences[i].CompleteDate()
			if end == nil {
				continue
			}
			if latest == nil || end.After(*latest) {
				latest = end
			}
		}
	}
	return latest
}

// Clone deep-copies the case and its charges.
func (c *Case) Clone() *Case {
	dup := *c
	dup.Charges = make([]*Charge, len(c.Charges))
	for i, ch := range c.Charges {
		dup.Charges[i] = ch.Clone()
	}
	return &dup
}

// populatedFields counts the case's non-blank scalar fields, used to break
// conflicts during a more-complete merge.
func (c *Case) populatedFields() int {
	n := 0
	for _, s := range []string{c.OTN, c.County, c.Status, c.Judge, c.Affiant, c.ArrestingAgency, c.DC} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	for _, d := range []*types.Date{c.ComplaintDate, c.ArrestDate, c.DispositionDate} {
		if d != nil {
			n++
		}
	}
	for _, f := range []*float64{c.TotalFines, c.FinesPaid} {
		if f != nil {
			n++
		}
	}
	return n
}

// MergeCases reconciles two parses of the same docket number. The more
// complete side supplies conflicting scalar values; blanks are filled from
// either side. Charges are joined by sequence number the same way the
// docket parser joins its own sub-passes.
func MergeCases(existing, incoming *Case) *Case {
	primary, secondary := existing, incoming
	if incoming.populatedFields() > existing.populatedFields() {
		primary, secondary = incoming, existing
	}
	merged := primary.Clone()

	fillString := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	fillString(&merged.OTN, secondary.OTN)
	fillString(&merged.County, secondary.County)
	fillString(&merged.Status, secondary.Status)
	fillString(&merged.Judge, secondary.Judge)
	fillString(&merged.Affiant, secondary.Affiant)
	fillString(&merged.ArrestingAgency, secondary.ArrestingAgency)
	fillString(&merged.DC, secondary.DC)
	if merged.ComplaintDate == nil {
		merged.ComplaintDate = secondary.ComplaintDate
	}
	if merged.ArrestDate == nil {
		merged.ArrestDate = secondary.ArrestDate
	}
	if merged.DispositionDate == nil {
		merged.DispositionDate = secondary.DispositionDate
	}
	if merged.TotalFines == nil {
		merged.TotalFines = secondary.TotalFines
	}
	if merged.FinesPaid == nil {
		merged.FinesPaid = secondary.FinesPaid
	}

	// Join charges by sequence. The primary side's charge is the base and
	// the secondary side fills blanks, so combine secondary first.
	bySeq := make(map[int]*Charge)
	var order []int
	for _, ch := range secondary.Charges {
		if _, seen := bySeq[ch.Sequence]; !seen {
			order = append(order, ch.Sequence)
		}
		bySeq[ch.Sequence] = ch.Clone()
	}
	for _, ch := range primary.Charges {
		if existing, seen := bySeq[ch.Sequence]; seen {
			bySeq[ch.Sequence] = CombineCharges(existing, ch)
		} else {
			order = append(order, ch.Sequence)
			bySeq[ch.Sequence] = ch.Clone()
		}
	}
	merged.Charges = make([]*Charge, 0, len(order))
	for _, seq := range order {
		merged.Charges = append(merged.Charges, bySeq[seq])
	}
	return merged
}
