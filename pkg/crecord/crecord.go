package crecord

import (
	"github.com/coolbeans/recordscreen/pkg/types"
)

// CRecord is the canonical in-memory record of one person's criminal
// history: the person plus their cases, keyed by docket number. A CRecord
// lives for the duration of one screening run. It is mutated by each
// ingested source record and by each applied eligibility rule; it is never
// the system of record.
type CRecord struct {
	Person *Person `json:"person,omitempty"`
	Cases  []*Case `json:"cases"`
}

// New returns an empty record.
func New() *CRecord {
	return &CRecord{}
}

// NewWithPerson returns a record seeded with the person being screened.
func NewWithPerson(p *Person) *CRecord {
	return &CRecord{Person: p}
}

// MergeOptions controls how a parsed source record is folded into the
// canonical record.
type MergeOptions struct {
	// CaseStrategy selects the per-case reconciliation. Zero value means
	// StrategyMoreComplete.
	CaseStrategy MergeStrategy

	// OverridePerson replaces the record's person with the source
	// record's person outright instead of only filling blanks.
	OverridePerson bool
}

// AddSourceRecord ingests one parsed source record, a (person, cases) pair,
// into the canonical record. Ingestion is idempotent: re-adding an
// identical parse does not duplicate cases or charges, because cases merge
// by docket number and charges join by sequence number.
func (r *CRecord) AddSourceRecord(person *Person, cases []*Case, opts MergeOptions) {
	if person != nil {
		switch {
		case r.Person == nil || opts.OverridePerson:
			r.Person = person
		default:
			r.Person.MergeBlanks(person)
		}
	}

	strategy := opts.CaseStrategy
	if strategy == "" {
		strategy = StrategyMoreComplete
	}

	for _, incoming := range cases {
		if incoming == nil {
			continue
		}
		idx := r.caseIndex(incoming.DocketNumber)
		if idx < 0 {
			r.Cases = append(r.Cases, incoming.Clone())
			continue
		}
		switch strategy {
		case StrategyOverwriteOld:
			r.Cases[idx] = incoming.Clone()
		default:
			r.Cases[idx] = MergeCases(r.Cases[idx], incoming)
		}
	}
}

// Clone deep-copies the record's cases. The person is shared: rules modify
// case membership, never the person's identity.
func (r *CRecord) Clone() *CRecord {
	dup := &CRecord{Person: r.Person}
	dup.Cases = make([]*Case, len(r.Cases))
	for i, c := range r.Cases {
		dup.Cases[i] = c.Clone()
	}
	return dup
}

func (r *CRecord) caseIndex(docketNumber string) int {
	for i, c := range r.Cases {
		if c.DocketNumber == docketNumber {
			return i
		}
	}
	return -1
}

// CaseByDocket returns the case with the given docket number, or nil.
func (r *CRecord) CaseByDocket(docketNumber string) *Case {
	if i := r.caseIndex(docketNumber); i >= 0 {
		return r.Cases[i]
	}
	return nil
}

// RemoveCase drops the case with the given docket number, if present.
func (r *CRecord) RemoveCase(docketNumber string) {
	if i := r.caseIndex(docketNumber); i >= 0 {
		r.Cases = append(r.Cases[:i], r.Cases[i+1:]...)
	}
}

// LastArrestDate returns the most recent arrest date across all cases, or
// nil when no case records one.
func (r *CRecord) LastArrestDate() *types.Date {
	var latest *types.Date
	for _, c := range r.Cases {
		if c.ArrestDate == nil {
			continue
		}
		if latest == nil || c.ArrestDate.After(*latest) {
			latest = c.ArrestDate
		}
	}
	return latest
}

// FinalReleaseDate returns the later of the last arrest date and the last
// sentence-complete date across the whole record. This is the statutory
// anchor for "years since final release". Nil when neither is known.
func (r *CRecord) FinalReleaseDate() *types.Date {
	latest := r.LastArrestDate()
	for _, c := range r.Cases {
		if end := c.LastSentenceCompleteDate(); end != nil {
			if latest == nil || end.After(*latest) {
				latest = end
			}
		}
	}
	return latest
}

// YearsSinceFinalRelease returns the years elapsed since FinalReleaseDate.
// The second return is false when the record has no release anchor at all;
// rules treat that as insufficient information, not eligibility.
func (r *CRecord) YearsSinceFinalRelease(today types.Date) (float64, bool) {
	anchor := r.FinalReleaseDate()
	if anchor == nil {
		return 0, false
	}
	return anchor.YearsUntil(today), true
}

// YearsSinceLastArrest returns the years elapsed since the most recent
// arrest on the record.
func (r *CRecord) YearsSinceLastArrest(today types.Date) (float64, bool) {
	last := r.LastArrestDate()
	if last == nil {
		return 0, false
	}
	return last.YearsUntil(today), true
}

// HasFelonyConviction reports whether any charge anywhere on the record is
// a felony-graded conviction.
func (r *CRecord) HasFelonyConviction() bool {
	for _, c := range r.Cases {
		for _, ch := range c.Charges {
			if ch.IsFelony() && ch.IsConviction() {
				return true
			}
		}
	}
	return false
}
