package crecord

import (
	"strings"

	"github.com/coolbeans/recordscreen/pkg/types"
)

// Charge is one charge within a case. Sequence is the court's per-case
// charge index. It uniquely identifies a charge within one case, and is the
// join key when the charges table and the disposition section of a docket
// are parsed separately and recombined. Zero means the sequence could not
// be read.
type Charge struct {
	Sequence        int         `json:"sequence"`
	Offense         string      `json:"offense"`
	Grade           string      `json:"grade"`
	Statute         string      `json:"statute"`
	Disposition     string      `json:"disposition"`
	DispositionDate *types.Date `json:"disposition_date,omitempty"`
	Sentences       []Sentence  `json:"sentences"`
}

// nonConvictionDispositions are disposition texts that end a charge without
// a conviction.
var nonConvictionDispositions = []string{
	"Not Guilty",
	"Nolle Prossed",
	"Withdrawn",
	"Dismissed",
	"Charge Changed",
}

// IsConviction reports whether the charge's disposition is a conviction.
// Any "Guilty" disposition counts ("Guilty", "Guilty Plea",
// "Guilty Plea - Negotiated", ...), but "Not Guilty" does not.
func (c *Charge) IsConviction() bool {
	d := strings.ToLower(strings.TrimSpace(c.Disposition))
	if d == "" {
		return false
	}
	if strings.Contains(d, "not guilty") {
		return false
	}
	return strings.Contains(d, "guilty")
}

// IsNonConviction reports whether the charge's disposition affirmatively
// resolves the charge without a conviction. A blank disposition is neither
// a conviction nor a non-conviction.
func (c *Charge) IsNonConviction() bool {
	d := strings.ToLower(strings.TrimSpace(c.Disposition))
	for _, nc := range nonConvictionDispositions {
		if strings.Contains(d, strings.ToLower(nc)) {
			return true
		}
	}
	return false
}

// IsSummary reports whether the charge is graded as a summary offense.
func (c *Charge) IsSummary() bool {
	return strings.TrimSpace(c.Grade) == "S"
}

// IsFelony reports whether the charge carries a felony grade (F, F1-F3).
func (c *Charge) IsFelony() bool {
	return strings.HasPrefix(strings.TrimSpace(c.Grade), "F")
}

// Equal reports whether two charges have the same fields. Sentences are
// compared by value.
func (c *Charge) Equal(other *Charge) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Sequence != other.Sequence || c.Offense != other.Offense ||
		c.Grade != other.Grade || c.Statute != other.Statute ||
		c.Disposition != other.Disposition {
		return false
	}
	if (c.DispositionDate == nil) != (other.DispositionDate == nil) {
		return false
	}
	if c.DispositionDate != nil && !c.DispositionDate.Equal(*other.DispositionDate) {
		return false
	}
	if len(c.Sentences) != len(other.Sentences) {
		return false
	}
	for i := range c.Sentences {
		if !c.Sentences[i].Equal(other.Sentences[i]) {
			return false
		}
	}
	return true
}

// Clone deep-copies the charge. Cloning nil returns nil.
func (c *Charge) Clone() *Charge {
	if c == nil {
		return nil
	}
	dup := *c
	if c.DispositionDate != nil {
		d := *c.DispositionDate
		dup.DispositionDate = &d
	}
	dup.Sentences = append([]Sentence(nil), c.Sentences...)
	return &dup
}

// CombineCharges merges two partial descriptions of the same charge into
// one. Non-blank fields from either side win; when both sides carry a
// non-blank value, the later-parsed side (b) wins, since the disposition
// pass carries the more authoritative disposition data. Either argument may
// be nil. Combining a charge with itself yields an equal charge.
func CombineCharges(a, b *Charge) *Charge {
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}
	combined := a.Clone()
	if b.Sequence != 0 {
		combined.Sequence = b.Sequence
	}
	if strings.TrimSpace(b.Offense) != "" {
		combined.Offense = b.Offense
	}
	if strings.TrimSpace(b.Grade) != "" {
		combined.Grade = b.Grade
	}
	if strings.TrimSpace(b.Statute) != "" {
		combined.Statute = b.Statute
	}
	if strings.TrimSpace(b.Disposition) != "" {
		combined.Disposition = b.Disposition
	}
	if b.DispositionDate != nil {
		d := *b.DispositionDate
		combined.DispositionDate = &d
	}
	if len(b.Sentences) > 0 {
		combined.Sentences = append([]Sentence(nil), b.Sentences...)
	}
	return combined
}

// ReduceCharges reduces a history of charge events to the final event per
// sequence number. A docket's disposition section records every event that
// happened to each charge; walking the events in document order and
// retaining the last one leaves the final disposition. The first-seen order
// of sequence numbers is preserved.
func ReduceCharges(events []*Charge) []*Charge {
	var order []int
	last := make(map[int]*Charge)
	for _, ev := range events {
		if _, seen := last[ev.Sequence]; !seen {
			order = append(order, ev.Sequence)
		}
		last[ev.Sequence] = ev
	}
	reduced := make([]*Charge, 0, len(order))
	for _, seq := range order {
		reduced = append(reduced, last[seq])
	}
	return reduced
}
