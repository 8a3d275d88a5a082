package crecord

import (
	"strconv"
	"strings"

	"github.com/coolbeans/recordscreen/pkg/types"
)

// TimePeriod is one leg of a sentence length: a quantity and a unit, both
// kept as the raw text the docket carried (e.g. "90", " Day(s)").
type TimePeriod struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// unit conversion to days. Unrecognized units yield no duration rather
// than a guess.
var unitDays = []struct {
	prefix string
	days   float64
}{
	{"day", 1},
	{"month", 30.42},
	{"year", 365},
}

// Days converts the period to a whole number of days. The second return is
// false when the quantity is not numeric or the unit is unrecognized.
func (p TimePeriod) Days() (int, bool) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(p.Quantity), 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(strings.TrimSpace(p.Unit))
	for _, u := range unitDays {
		if strings.HasPrefix(unit, u.prefix) {
			return int(qty * u.days), true
		}
	}
	return 0, false
}

// SentenceLength is the minimum and maximum term of a sentence.
type SentenceLength struct {
	MinTime TimePeriod `json:"min_time"`
	MaxTime TimePeriod `json:"max_time"`
}

// Sentence is one penalty imposed on a charge.
type Sentence struct {
	SentenceDate   *types.Date     `json:"sentence_date,omitempty"`
	SentenceType   string          `json:"sentence_type"`
	SentencePeriod string          `json:"sentence_period"`
	SentenceLength *SentenceLength `json:"sentence_length,omitempty"`
}

// Equal reports whether two sentences carry the same values, following
// the date and length pointers rather than comparing them by identity.
func (s Sentence) Equal(other Sentence) bool {
	if s.SentenceType != other.SentenceType || s.SentencePeriod != other.SentencePeriod {
		return false
	}
	if (s.SentenceDate == nil) != (other.SentenceDate == nil) {
		return false
	}
	if s.SentenceDate != nil && !s.SentenceDate.Equal(*other.SentenceDate) {
		return false
	}
	if (s.SentenceLength == nil) != (other.SentenceLength == nil) {
		return false
	}
	if s.SentenceLength != nil && *s.SentenceLength != *other.SentenceLength {
		return false
	}
	return true
}

// CompleteDate returns the date the minimum term of the sentence was
// served: sentence date plus the minimum time. Returns nil when either the
// sentence date or a convertible minimum term is missing.
func (s *Sentence) CompleteDate() *types.Date {
	if s.SentenceDate == nil || s.SentenceLength == nil {
		return nil
	}
	days, ok := s.SentenceLength.MinTime.Days()
	if !ok {
		return nil
	}
	d := s.SentenceDate.AddDays(days)
	return &d
}
