// Package crecord models a person's criminal record: the defendant, their
// cases and charges, and the canonical record (CRecord) that accumulates
// parsed source documents and that the eligibility rules evaluate.
package crecord

import (
	"strings"

	"github.com/coolbeans/recordscreen/pkg/types"
)

// Address is the free-text mailing address found in the defendant
// information section of a docket.
type Address struct {
	LineOne string `json:"line_one"`
	LineTwo string `json:"line_two"`
}

// IsZero reports whether no address line was captured.
func (a Address) IsZero() bool {
	return a.LineOne == "" && a.LineTwo == ""
}

// Person is the defendant a record describes. Identity for merge purposes
// is name plus date of birth, compared case- and whitespace-insensitively.
type Person struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth *types.Date `json:"date_of_birth,omitempty"`
	DateOfDeath *types.Date `json:"date_of_death,omitempty"`
	Aliases     []string    `json:"aliases,omitempty"`
	Address     *Address    `json:"address,omitempty"`
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age returns the person's age in whole years on the given date, or -1 when
// the date of birth is unknown.
func (p *Person) Age(today types.Date) int {
	if p.DateOfBirth == nil {
		return -1
	}
	dob := *p.DateOfBirth
	age := today.Year - dob.Year
	if today.Month < dob.Month || (today.Month == dob.Month && today.Day < dob.Day) {
		age--
	}
	return age
}

// YearsDeceased returns the number of years since the person's death, or
// false when no date of death is recorded.
func (p *Person) YearsDeceased(today types.Date) (float64, bool) {
	if p.DateOfDeath == nil {
		return 0, false
	}
	return p.DateOfDeath.YearsUntil(today), true
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SameIdentity reports whether two Person values describe the same person:
// same normalized name and, when both are known, the same date of birth.
func (p *Person) SameIdentity(other *Person) bool {
	if other == nil {
		return false
	}
	if normalizeName(p.FirstName) != normalizeName(other.FirstName) ||
		normalizeName(p.LastName) != normalizeName(other.LastName) {
		return false
	}
	if p.DateOfBirth != nil && other.DateOfBirth != nil {
		return p.DateOfBirth.Equal(*other.DateOfBirth)
	}
	return true
}

// MergeBlanks fills any blank fields of p from other. Populated fields are
// never overwritten: a lower-confidence source must not blank out identity
// details an earlier source established.
func (p *Person) MergeBlanks(other *Person) {
	if other == nil {
		return
	}
	if p.FirstName == "" {
		p.FirstName = other.FirstName
	}
	if p.LastName == "" {
		p.LastName = other.LastName
	}
	if p.DateOfBirth == nil {
		p.DateOfBirth = other.DateOfBirth
	}
	if p.DateOfDeath == nil {
		p.DateOfDeath = other.DateOfDeath
	}
	if p.Address == nil || p.Address.IsZero() {
		p.Address = other.Address
	}
	for _, alias := range other.Aliases {
		if !containsString(p.Aliases, alias) {
			p.Aliases = append(p.Aliases, alias)
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
