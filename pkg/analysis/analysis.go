// Package analysis evaluates expungement and sealing eligibility rules
// against a criminal record. Rules run in statutory order and each one
// sees the record as the previous rules left it: a case expunged by an
// earlier rule is gone before a later rule looks.
package analysis

import (
	"bytes"
	"encoding/json"

	"github.com/coolbeans/recordscreen/pkg/crecord"
)

// Target names the case, and optionally the single charge within it, that
// an eligibility decision applies to. A nil Charge means the whole case.
type Target struct {
	Case   *crecord.Case   `json:"case"`
	Charge *crecord.Charge `json:"charge,omitempty"`
}

// Ruling is one rule's analysis entry. Conditions records every predicate
// the rule actually evaluated, so a caller can explain why a record was
// found ineligible, not just that it was.
type Ruling struct {
	Conclusion   string          `json:"conclusion"`
	Conditions   map[string]bool `json:"conditions"`
	Expungements []Target        `json:"expungements,omitempty"`
	Sealings     []Target        `json:"sealings,omitempty"`
}

// Rule evaluates one eligibility rule. It returns the record with any
// expunged cases removed, the rule's unique analysis key, and its ruling.
// A rule never fails: missing information degrades to false conditions.
type Rule func(record *crecord.CRecord) (*crecord.CRecord, string, *Ruling)

// Analysis threads a record through a chain of rules and accumulates each
// ruling under its key, in application order.
type Analysis struct {
	record  *crecord.CRecord
	keys    []string
	rulings map[string]*Ruling
}

// New starts an analysis over a copy of the record. The caller's record is
// left untouched by the rules.
func New(record *crecord.CRecord) *Analysis {
	return &Analysis{
		record:  record.Clone(),
		rulings: make(map[string]*Ruling),
	}
}

// Rule applies one rule and returns the analysis for chaining. Rule keys
// are unique; a later rule reusing an earlier key leaves the earlier entry
// and the record unchanged.
func (a *Analysis) Rule(rule Rule) *Analysis {
	record, key, ruling := rule(a.record)
	if _, taken := a.rulings[key]; taken {
		return a
	}
	a.record = record
	a.keys = append(a.keys, key)
	a.rulings[key] = ruling
	return a
}

// Record returns the record as the applied rules left it: the cases no
// rule wanted removed.
func (a *Analysis) Record() *crecord.CRecord {
	return a.record
}

// Ruling returns the entry a rule recorded under key, or nil.
func (a *Analysis) Ruling(key string) *Ruling {
	return a.rulings[key]
}

// MarshalJSON emits the remaining record and the rulings keyed by rule
// name, in the order the rules were applied.
func (a *Analysis) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"record":`)
	record, err := json.Marshal(a.record)
	if err != nil {
		return nil, err
	}
	buf.Write(record)
	buf.WriteString(`,"analysis":{`)
	for i, key := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		ruling, err := json.Marshal(a.rulings[key])
		if err != nil {
			return nil, err
		}
		buf.Write(ruling)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
