package petition

import (
	"testing"

	"github.com/coolbeans/recordscreen/pkg/analysis"
	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/types"
)

func testClient() *crecord.Person {
	return &crecord.Person{FirstName: "John", LastName: "Smeth"}
}

func testCase() *crecord.Case {
	return &crecord.Case{
		DocketNumber: "CP-51-CR-0001234-2005",
		Charges: []*crecord.Charge{
			{Sequence: 1, Offense: "Theft By Deception", Disposition: "Nolle Prossed"},
			{Sequence: 2, Offense: "Receiving Stolen Property", Disposition: "Withdrawn"},
		},
	}
}

func TestContext(t *testing.T) {
	p := NewExpungement(&crecord.Attorney{FullName: "Jane Lawyer"}, testClient(), NonsummaryProcedure)
	p.AddCase(testCase())

	ctx := p.Context(types.Date{Year: 2020, Month: 6, Day: 1})
	if got := ctx["date"]; got != "June 01, 2020" {
		t.Errorf("Expected a long form date, got %q", got)
	}
	if got := ctx["disposition_list"]; got != "Nolle Prossed, Withdrawn" {
		t.Errorf("Expected dispositions joined, got %q", got)
	}
	if got := ctx["petition_procedure"]; got != NonsummaryProcedure {
		t.Errorf("Expected the procedure in context, got %q", got)
	}

	sealing := NewSealing(nil, testClient())
	ctx = sealing.Context(types.Date{Year: 2020, Month: 6, Day: 1})
	if _, ok := ctx["petition_procedure"]; ok {
		t.Error("Expected no procedure on a sealing petition")
	}
	if got := ctx["disposition_list"]; got != "" {
		t.Errorf("Expected an empty disposition list without cases, got %q", got)
	}
}

func TestFileName(t *testing.T) {
	p := NewSealing(nil, testClient())
	if got := p.FileName(); got != "Sealing_Smeth_NoCases.docx" {
		t.Errorf("Expected a NoCases fallback, got %q", got)
	}
	p.AddCase(testCase())
	if got := p.FileName(); got != "Sealing_Smeth_CP-51-CR-0001234-2005.docx" {
		t.Errorf("Expected kind, client, and docket in the name, got %q", got)
	}
}

func TestFromAnalysis(t *testing.T) {
	rec := &crecord.CRecord{
		Person: testClient(),
		Cases: []*crecord.Case{
			testCase(),
			{
				DocketNumber: "MC-51-CR-0000002-2008",
				ArrestDate:   &types.Date{Year: 2008, Month: 1, Day: 1},
				Charges: []*crecord.Charge{
					{Sequence: 1, Offense: "Disorderly Conduct", Grade: "S", Disposition: "Guilty Plea"},
					{Sequence: 2, Offense: "Harassment", Grade: "M3", Disposition: "Guilty Plea"},
				},
			},
		},
	}

	a := analysis.Run(rec)
	petitions := FromAnalysis(a, &crecord.Attorney{FullName: "Jane Lawyer"}, rec.Person)

	var nonsummary, summary, sealings int
	for _, p := range petitions {
		switch {
		case p.Kind == KindSealing:
			sealings++
		case p.Procedure == SummaryProcedure:
			summary++
			if p.ExpungementType != PartialExpungement {
				t.Errorf("Expected a partial summary expungement, got %q", p.ExpungementType)
			}
		default:
			nonsummary++
			if p.ExpungementType != FullExpungement {
				t.Errorf("Expected a full nonconviction expungement, got %q", p.ExpungementType)
			}
			if len(p.Cases) != 1 || p.Cases[0].DocketNumber != "CP-51-CR-0001234-2005" {
				t.Errorf("Expected the nonconviction case on the petition, got %+v", p.Cases)
			}
		}
	}
	if nonsummary != 1 || summary != 1 {
		t.Errorf("Expected one nonsummary and one summary petition, got %d and %d", nonsummary, summary)
	}
	if sealings != 0 {
		t.Errorf("Expected no sealing petitions for recent convictions, got %d", sealings)
	}
}
