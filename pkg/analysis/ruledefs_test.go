package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/types"
)

var testToday = types.Date{Year: 2020, Month: 6, Day: 1}

func dateP(year, month, day int) *types.Date {
	return &types.Date{Year: year, Month: month, Day: day}
}

func floatP(f float64) *float64 {
	return &f
}

func exampleRecord() *crecord.CRecord {
	return &crecord.CRecord{
		Person: &crecord.Person{
			FirstName:   "John",
			LastName:    "Smeth",
			DateOfBirth: dateP(1990, 1, 1),
		},
		Cases: []*crecord.Case{
			{
				DocketNumber: "CP-51-CR-0001234-2005",
				ArrestDate:   dateP(2005, 1, 1),
				Charges: []*crecord.Charge{
					{
						Sequence:        1,
						Offense:         "Theft By Deception",
						Grade:           "M2",
						Statute:         "18 § 3922",
						Disposition:     "Guilty Plea",
						DispositionDate: dateP(2005, 6, 1),
					},
				},
			},
		},
	}
}

func TestExpungeDeceased(t *testing.T) {
	rec := exampleRecord()
	remaining, key, ruling := expungeDeceased(rec, testToday)
	if key != KeyDeceasedExpungements {
		t.Errorf("Expected key %q, got %q", KeyDeceasedExpungements, key)
	}
	if ruling.Conclusion != "No expungements possible" {
		t.Errorf("Expected no expungements for a living person, got %q", ruling.Conclusion)
	}
	if ruling.Conditions["deceased_three_years"] {
		t.Error("Expected deceased_three_years to be false")
	}
	if len(remaining.Cases) != len(rec.Cases) {
		t.Errorf("Expected the record unchanged, got %d cases", len(remaining.Cases))
	}

	rec.Person.DateOfDeath = dateP(2000, 1, 1)
	remaining, _, ruling = expungeDeceased(rec, testToday)
	if ruling.Conclusion != "Expunge cases" {
		t.Errorf("Expected Expunge cases, got %q", ruling.Conclusion)
	}
	if !ruling.Conditions["deceased_three_years"] {
		t.Error("Expected deceased_three_years to be true")
	}
	if len(remaining.Cases) != 0 {
		t.Errorf("Expected all cases removed, got %d", len(remaining.Cases))
	}
	if len(ruling.Expungements) != 1 || ruling.Expungements[0].Case != rec.Cases[0] {
		t.Errorf("Expected the whole case targeted, got %+v", ruling.Expungements)
	}
}

func TestExpungeOver70(t *testing.T) {
	rec := exampleRecord()
	rec.Person.DateOfBirth = dateP(1920, 1, 1)
	rec.Cases[0].ArrestDate = dateP(1970, 1, 1)
	today := testToday
	rec.Cases[0].Charges[0].Sentences = []crecord.Sentence{{
		SentenceDate:   &today,
		SentenceType:   "Confinement",
		SentencePeriod: "90 days",
		SentenceLength: &crecord.SentenceLength{
			MinTime: crecord.TimePeriod{Quantity: "90", Unit: "day"},
			MaxTime: crecord.TimePeriod{Quantity: "90", Unit: "day"},
		},
	}}

	remaining, _, ruling := expungeOver70(rec, testToday)
	if ruling.Conclusion != "No expungements possible" {
		t.Errorf("Expected no expungements with a fresh sentence, got %q", ruling.Conclusion)
	}
	if ruling.Conditions["years_since_final_release"] {
		t.Error("Expected years_since_final_release to be false")
	}
	if len(remaining.Cases) != len(rec.Cases) {
		t.Errorf("Expected the record unchanged, got %d cases", len(remaining.Cases))
	}

	rec.Cases[0].Charges[0].Sentences[0].SentenceDate = dateP(1980, 1, 1)
	remaining, _, ruling = expungeOver70(rec, testToday)
	if ruling.Conclusion != "Expunge cases" {
		t.Errorf("Expected Expunge cases, got %q", ruling.Conclusion)
	}
	if !ruling.Conditions["years_since_final_release"] {
		t.Error("Expected years_since_final_release to be true")
	}
	if len(remaining.Cases) != 0 {
		t.Errorf("Expected all cases removed, got %d", len(remaining.Cases))
	}
	if len(rec.Cases) != 1 {
		t.Error("Expected the input record to be left alone")
	}
}

func TestExpungeOver70NeverTriggersForTheYoung(t *testing.T) {
	rec := exampleRecord()
	rec.Cases[0].ArrestDate = dateP(1990, 1, 1)

	_, _, ruling := expungeOver70(rec, testToday)
	if ruling.Conclusion != "No expungements possible" {
		t.Errorf("Expected no expungements for a person under 70, got %q", ruling.Conclusion)
	}
	if ruling.Conditions["age_over_70"] {
		t.Error("Expected age_over_70 to be false")
	}
}

func TestExpungeNonconvictions(t *testing.T) {
	rec := exampleRecord()
	nolleProssed := &crecord.Charge{Sequence: 2, Offense: "Receiving Stolen Property", Grade: "M1", Statute: "18 § 3925", Disposition: "Nolle Prossed"}
	rec.Cases[0].Charges = append(rec.Cases[0].Charges, nolleProssed)
	rec.Cases = append(rec.Cases, &crecord.Case{
		DocketNumber: "MC-51-CR-0000002-2008",
		Charges: []*crecord.Charge{
			{Sequence: 1, Offense: "Disorderly Conduct", Grade: "S", Statute: "18 § 5503", Disposition: "Withdrawn"},
		},
	})

	remaining, key, ruling := ExpungeNonconvictions(rec)
	if key != KeyNonconvictionExpungements {
		t.Errorf("Expected key %q, got %q", KeyNonconvictionExpungements, key)
	}
	if ruling.Conclusion != "Expunge 2 charges in 2 cases" {
		t.Errorf("Expected a partial conclusion, got %q", ruling.Conclusion)
	}
	if len(remaining.Cases) != 1 {
		t.Fatalf("Expected the fully nonconviction case removed, got %d cases", len(remaining.Cases))
	}
	if len(remaining.Cases[0].Charges) != 1 || remaining.Cases[0].Charges[0].Disposition != "Guilty Plea" {
		t.Errorf("Expected only the conviction to remain, got %+v", remaining.Cases[0].Charges)
	}

	var flagged *crecord.Charge
	for _, target := range ruling.Expungements {
		if target.Charge != nil {
			flagged = target.Charge
		}
	}
	if flagged != nolleProssed {
		t.Errorf("Expected the nolle prossed charge flagged unchanged, got %+v", flagged)
	}
}

func TestExpungeNonconvictionsAllCases(t *testing.T) {
	rec := exampleRecord()
	rec.Cases[0].Charges[0].Disposition = "Not Guilty"

	remaining, _, ruling := ExpungeNonconvictions(rec)
	if ruling.Conclusion != "Expunge all cases" {
		t.Errorf("Expected Expunge all cases, got %q", ruling.Conclusion)
	}
	if len(remaining.Cases) != 0 {
		t.Errorf("Expected no cases left, got %d", len(remaining.Cases))
	}
}

func TestExpungeNonconvictionsNone(t *testing.T) {
	rec := exampleRecord()
	remaining, _, ruling := ExpungeNonconvictions(rec)
	if ruling.Conclusion != "No expungements possible" {
		t.Errorf("Expected no expungements, got %q", ruling.Conclusion)
	}
	if len(remaining.Cases) != 1 {
		t.Errorf("Expected the record unchanged, got %d cases", len(remaining.Cases))
	}
}

func TestExpungeSummaryConvictions(t *testing.T) {
	rec := exampleRecord()
	summaryCharge := rec.Cases[0].Charges[0]
	summaryCharge.Grade = "S"
	rec.Cases[0].ArrestDate = dateP(2000, 1, 1)
	rec.Cases[0].DispositionDate = dateP(2001, 1, 1)

	_, _, ruling := expungeSummaryConvictions(rec, testToday)
	if ruling.Conclusion != "Expunge all cases" {
		t.Errorf("Expected Expunge all cases, got %q", ruling.Conclusion)
	}

	// A recent arrest blocks summary expungements entirely.
	rec.Cases[0].ArrestDate = dateP(2019, 1, 1)
	_, _, ruling = expungeSummaryConvictions(rec, testToday)
	if ruling.Conclusion != "No expungements possible" {
		t.Errorf("Expected no expungements after a recent arrest, got %q", ruling.Conclusion)
	}
	if ruling.Conditions["five_years_since_last_arrest"] {
		t.Error("Expected five_years_since_last_arrest to be false")
	}

	// Only summary convictions qualify, not other grades.
	rec.Cases[0].ArrestDate = dateP(2000, 1, 1)
	rec.Cases[0].Charges = append(rec.Cases[0].Charges, &crecord.Charge{
		Sequence:    2,
		Offense:     "Theft By Deception",
		Grade:       "M2",
		Statute:     "18 § 3922",
		Disposition: "Guilty Plea",
	})
	remaining, _, ruling := expungeSummaryConvictions(rec, testToday)
	if ruling.Conclusion != "Expunge 1 charges in 1 cases" {
		t.Errorf("Expected a partial conclusion, got %q", ruling.Conclusion)
	}
	if len(ruling.Expungements) != 1 || ruling.Expungements[0].Charge != summaryCharge {
		t.Errorf("Expected the summary charge targeted unchanged, got %+v", ruling.Expungements)
	}
	if len(remaining.Cases) != 1 || len(remaining.Cases[0].Charges) != 1 {
		t.Errorf("Expected the case kept with the conviction, got %+v", remaining.Cases)
	}
}

func TestSealConvictions(t *testing.T) {
	rec := exampleRecord()
	rec.Cases[0].TotalFines = floatP(100)
	rec.Cases[0].FinesPaid = floatP(100)

	_, key, ruling := sealConvictions(rec, testToday)
	if key != KeyConvictionSealings {
		t.Errorf("Expected key %q, got %q", KeyConvictionSealings, key)
	}
	if ruling.Conclusion != "Seal 1 charges in 1 cases" {
		t.Errorf("Expected one sealing, got %q", ruling.Conclusion)
	}
	if !ruling.Conditions["no_felony_convictions"] {
		t.Error("Expected no_felony_convictions to be true")
	}
	if len(ruling.Sealings) != 1 || ruling.Sealings[0].Charge != rec.Cases[0].Charges[0] {
		t.Errorf("Expected the conviction targeted, got %+v", ruling.Sealings)
	}
}

func TestSealConvictionsDisqualifiers(t *testing.T) {
	build := func(mutate func(*crecord.CRecord)) *Ruling {
		rec := exampleRecord()
		rec.Cases[0].TotalFines = floatP(100)
		rec.Cases[0].FinesPaid = floatP(100)
		mutate(rec)
		_, _, ruling := sealConvictions(rec, testToday)
		return ruling
	}

	cases := []struct {
		name   string
		mutate func(*crecord.CRecord)
	}{
		{"felony conviction on the record", func(rec *crecord.CRecord) {
			rec.Cases[0].Charges = append(rec.Cases[0].Charges, &crecord.Charge{
				Sequence: 2, Grade: "F1", Statute: "18 § 3701", Disposition: "Guilty Plea",
			})
		}},
		{"disposition within ten years", func(rec *crecord.CRecord) {
			rec.Cases[0].Charges[0].DispositionDate = dateP(2015, 6, 1)
		}},
		{"excluded statute", func(rec *crecord.CRecord) {
			rec.Cases[0].Charges[0].Statute = "18 § 2701"
		}},
		{"fines still owed", func(rec *crecord.CRecord) {
			rec.Cases[0].FinesPaid = floatP(50)
		}},
		{"grade above M2", func(rec *crecord.CRecord) {
			rec.Cases[0].Charges[0].Grade = "M1"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ruling := build(tc.mutate)
			if ruling.Conclusion != "No charges can be sealed" {
				t.Errorf("Expected no sealings, got %q", ruling.Conclusion)
			}
		})
	}
}

func TestRunChainAndMarshal(t *testing.T) {
	rec := exampleRecord()
	rec.Person.DateOfDeath = dateP(2000, 1, 1)

	a := Run(rec)
	if got := a.Ruling(KeyDeceasedExpungements).Conclusion; got != "Expunge cases" {
		t.Errorf("Expected the deceased rule to fire, got %q", got)
	}
	if len(a.Record().Cases) != 0 {
		t.Errorf("Expected later rules to see an emptied record, got %d cases", len(a.Record().Cases))
	}
	if len(rec.Cases) != 1 {
		t.Error("Expected the caller's record untouched")
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := decoded["record"]; !ok {
		t.Error("Expected a record key in the output")
	}

	text := string(out)
	keys := []string{
		KeyDeceasedExpungements,
		KeyAgeOver70Expungements,
		KeyNonconvictionExpungements,
		KeySummaryConvictionExpungements,
		KeyConvictionSealings,
	}
	last := -1
	for _, key := range keys {
		idx := strings.Index(text, `"`+key+`"`)
		if idx < 0 {
			t.Fatalf("Missing %q in output", key)
		}
		if idx < last {
			t.Errorf("Expected %q to appear after the previous rule's entry", key)
		}
		last = idx
	}
}
