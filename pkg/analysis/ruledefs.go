package analysis

import (
	"fmt"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/types"
)

// Analysis keys of the standard rules.
const (
	KeyDeceasedExpungements          = "deceased_expungements"
	KeyAgeOver70Expungements         = "age_over_70_expungements"
	KeyNonconvictionExpungements     = "nonconviction_expungements"
	KeySummaryConvictionExpungements = "summary_conviction_expungements"
	KeyConvictionSealings            = "conviction_sealings"
)

const (
	conclusionExpungeCases   = "Expunge cases"
	conclusionExpungeAll     = "Expunge all cases"
	conclusionNoExpungements = "No expungements possible"
	conclusionNoSealings     = "No charges can be sealed"

	deceasedYearsThreshold  = 3
	expungementAge          = 70
	finalReleaseYears       = 10
	summaryArrestFreeYears  = 5
	sealingDispositionYears = 10
)

// Standard is the full screening rule chain, in statutory order.
func Standard() []Rule {
	return []Rule{
		ExpungeDeceased,
		ExpungeOver70,
		ExpungeNonconvictions,
		ExpungeSummaryConvictions,
		SealConvictions,
	}
}

// Run applies the standard rule chain to a record.
func Run(record *crecord.CRecord) *Analysis {
	a := New(record)
	for _, rule := range Standard() {
		a.Rule(rule)
	}
	return a
}

// ExpungeDeceased expunges the whole record of a person who has been
// deceased for at least three years.
func ExpungeDeceased(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling) {
	return expungeDeceased(record, types.Today())
}

func expungeDeceased(record *crecord.CRecord, today types.Date) (*crecord.CRecord, string, *Ruling) {
	eligible := false
	if record.Person != nil {
		if years, known := record.Person.YearsDeceased(today); known {
			eligible = years >= deceasedYearsThreshold
		}
	}
	ruling := &Ruling{
		Conditions: map[string]bool{"deceased_three_years": eligible},
	}
	if !eligible {
		ruling.Conclusion = conclusionNoExpungements
		return record, KeyDeceasedExpungements, ruling
	}

	ruling.Conclusion = conclusionExpungeCases
	for _, kase := range record.Cases {
		ruling.Expungements = append(ruling.Expungements, Target{Case: kase})
	}
	return crecord.NewWithPerson(record.Person), KeyDeceasedExpungements, ruling
}

// ExpungeOver70 expunges the whole record of a person aged seventy or
// older whose final release was at least ten years ago. Final release is
// the later of the last arrest and the last sentence-complete date.
func ExpungeOver70(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling) {
	return expungeOver70(record, types.Today())
}

func expungeOver70(record *crecord.CRecord, today types.Date) (*crecord.CRecord, string, *Ruling) {
	over70 := false
	if record.Person != nil {
		over70 = record.Person.Age(today) >= expungementAge
	}
	released := false
	if years, known := record.YearsSinceFinalRelease(today); known {
		released = years >= finalReleaseYears
	}
	ruling := &Ruling{
		Conditions: map[string]bool{
			"age_over_70":               over70,
			"years_since_final_release": released,
		},
	}
	if !over70 || !released {
		ruling.Conclusion = conclusionNoExpungements
		return record, KeyAgeOver70Expungements, ruling
	}

	ruling.Conclusion = conclusionExpungeCases
	for _, kase := range record.Cases {
		ruling.Expungements = append(ruling.Expungements, Target{Case: kase})
	}
	return crecord.NewWithPerson(record.Person), KeyAgeOver70Expungements, ruling
}

// ExpungeNonconvictions expunges charges that ended without a conviction.
// A case leaves the record only when every one of its charges qualifies;
// otherwise the qualifying charges are flagged and the case stays with the
// remainder.
func ExpungeNonconvictions(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling) {
	remaining, ruling := expungeByCharge(record, func(ch *crecord.Charge) bool {
		return ch.IsNonConviction()
	}, map[string]bool{})
	return remaining, KeyNonconvictionExpungements, ruling
}

// ExpungeSummaryConvictions expunges summary-grade convictions once five
// arrest-free years have passed since the last arrest on the record.
func ExpungeSummaryConvictions(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling) {
	return expungeSummaryConvictions(record, types.Today())
}

func expungeSummaryConvictions(record *crecord.CRecord, today types.Date) (*crecord.CRecord, string, *Ruling) {
	arrestFree := false
	if years, known := record.YearsSinceLastArrest(today); known {
		arrestFree = years >= summaryArrestFreeYears
	}
	conditions := map[string]bool{"five_years_since_last_arrest": arrestFree}
	if !arrestFree {
		ruling := &Ruling{Conclusion: conclusionNoExpungements, Conditions: conditions}
		return record, KeySummaryConvictionExpungements, ruling
	}

	remaining, ruling := expungeByCharge(record, func(ch *crecord.Charge) bool {
		return ch.IsSummary() && ch.IsConviction()
	}, conditions)
	return remaining, KeySummaryConvictionExpungements, ruling
}

// expungeByCharge partitions every case's charges by the eligibility
// predicate, removes fully qualifying cases from the record, trims partly
// qualifying ones, and words the conclusion by how much of the record the
// rule reached.
func expungeByCharge(record *crecord.CRecord, eligible func(*crecord.Charge) bool, conditions map[string]bool) (*crecord.CRecord, *Ruling) {
	ruling := &Ruling{Conditions: conditions}
	var kept []*crecord.Case
	chargeCount, caseCount, fullCases := 0, 0, 0

	for _, kase := range record.Cases {
		var qualifying, remainder []*crecord.Charge
		for _, ch := range kase.Charges {
			if eligible(ch) {
				qualifying = append(qualifying, ch)
			} else {
				remainder = append(remainder, ch)
			}
		}
		switch {
		case len(qualifying) == 0:
			kept = append(kept, kase)
		case len(remainder) == 0:
			ruling.Expungements = append(ruling.Expungements, Target{Case: kase})
			chargeCount += len(qualifying)
			caseCount++
			fullCases++
		default:
			for _, ch := range qualifying {
				ruling.Expungements = append(ruling.Expungements, Target{Case: kase, Charge: ch})
			}
			chargeCount += len(qualifying)
			caseCount++
			trimmed := kase.Clone()
			trimmed.Charges = trimmed.Charges[:0]
			for _, ch := range remainder {
				trimmed.Charges = append(trimmed.Charges, ch.Clone())
			}
			kept = append(kept, trimmed)
		}
	}

	switch {
	case caseCount == 0:
		ruling.Conclusion = conclusionNoExpungements
		return record, ruling
	case fullCases == len(record.Cases):
		ruling.Conclusion = conclusionExpungeAll
	default:
		ruling.Conclusion = fmt.Sprintf("Expunge %d charges in %d cases", chargeCount, caseCount)
	}
	return &crecord.CRecord{Person: record.Person, Cases: kept}, ruling
}

// Statutes whose convictions cannot be sealed.
var sealingExcludedStatutes = []string{
	"18 § 2701",
	"18 § 2702",
	"18 § 3121",
	"18 § 3123",
	"18 § 3125",
	"18 § 3126",
	"18 § 4302",
	"18 § 5902",
	"18 § 5903",
	"18 § 6312",
	"42 § 9799",
}

func statuteExcludedFromSealing(statute string) bool {
	for _, excluded := range sealingExcludedStatutes {
		if strings.HasPrefix(strings.TrimSpace(statute), excluded) {
			return true
		}
	}
	return false
}

// Grades at or below M2 can be sealed; a blank grade is treated as an
// ungraded offense, which qualifies.
func sealableGrade(grade string) bool {
	switch strings.TrimSpace(grade) {
	case "", "S", "M", "M3", "M2":
		return true
	default:
		return false
	}
}

// SealConvictions flags convictions eligible for sealing: grade M2 or
// lower, a decade since disposition, fines paid, no excluded statute, and
// no felony conviction anywhere on the record. Sealed cases stay on the
// record; sealing limits access rather than destroying the case.
func SealConvictions(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling) {
	return sealConvictions(record, types.Today())
}

func sealConvictions(record *crecord.CRecord, today types.Date) (*crecord.CRecord, string, *Ruling) {
	noFelony := !record.HasFelonyConviction()
	ruling := &Ruling{
		Conditions: map[string]bool{"no_felony_convictions": noFelony},
	}
	if !noFelony {
		ruling.Conclusion = conclusionNoSealings
		return record, KeyConvictionSealings, ruling
	}

	chargeCount, caseCount := 0, 0
	for _, kase := range record.Cases {
		if kase.FinesOwed() {
			continue
		}
		sealedHere := 0
		for _, ch := range kase.Charges {
			if !ch.IsConviction() || !sealableGrade(ch.Grade) || statuteExcludedFromSealing(ch.Statute) {
				continue
			}
			if ch.DispositionDate == nil || ch.DispositionDate.YearsUntil(today) < sealingDispositionYears {
				continue
			}
			ruling.Sealings = append(ruling.Sealings, Target{Case: kase, Charge: ch})
			sealedHere++
		}
		if sealedHere > 0 {
			chargeCount += sealedHere
			caseCount++
		}
	}

	if chargeCount == 0 {
		ruling.Conclusion = conclusionNoSealings
	} else {
		ruling.Conclusion = fmt.Sprintf("Seal %d charges in %d cases", chargeCount, caseCount)
	}
	return record, KeyConvictionSealings, ruling
}
