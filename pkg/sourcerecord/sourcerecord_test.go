package sourcerecord

import (
	"strings"
	"testing"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/docket"
)

func TestCourtFor(t *testing.T) {
	cases := []struct {
		docketNumber string
		want         Court
	}{
		{"CP-51-CR-0001234-2010", CourtCP},
		{"MC-51-CR-0000001-2010", CourtCP},
		{"MJ-05204-CR-0000100-2015", CourtMDJ},
		{"unrecognizable", Court("")},
	}
	for _, tc := range cases {
		if got := CourtFor(tc.docketNumber); got != tc.want {
			t.Errorf("CourtFor(%q) = %q, want %q", tc.docketNumber, got, tc.want)
		}
	}
}

func TestNewParsesWithGivenParser(t *testing.T) {
	parser := func(text string) (*crecord.Person, []*crecord.Case, []string) {
		return &crecord.Person{FirstName: "Jane", LastName: "Doe"},
			[]*crecord.Case{{DocketNumber: "CP-51-CR-0001234-2010"}},
			[]string{"Could not find otn"}
	}

	sr := New("some docket text", docket.ParseFunc(parser))
	if sr.ParseStatus != ParseStatusSuccess {
		t.Errorf("Expected parse status %q, got %q", ParseStatusSuccess, sr.ParseStatus)
	}
	if sr.DocketNumber != "CP-51-CR-0001234-2010" {
		t.Errorf("Expected the docket number to come from the parsed case, got %q", sr.DocketNumber)
	}
	if sr.Court != CourtCP {
		t.Errorf("Expected court CP, got %q", sr.Court)
	}
	if sr.Person == nil || sr.Person.LastName != "Doe" {
		t.Errorf("Expected the parsed person on the record, got %+v", sr.Person)
	}
	if len(sr.ParseErrors) != 1 {
		t.Errorf("Expected parse errors to be carried, got %v", sr.ParseErrors)
	}
	if sr.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a generated id")
	}
}

func TestFromTextClassifiesDocket(t *testing.T) {
	text := strings.Join([]string{
		"COURT OF COMMON PLEAS OF PHILADELPHIA COUNTY",
		"CRIMINAL DOCKET",
		"Docket Number: CP-51-CR-0001234-2010",
	}, "\n")

	sr := FromText(text)
	if sr == nil {
		t.Fatal("Expected a source record")
	}
	if sr.RecordType != RecTypeDocketPDF {
		t.Errorf("Expected record type %q, got %q", RecTypeDocketPDF, sr.RecordType)
	}
	if sr.DocketNumber != "CP-51-CR-0001234-2010" {
		t.Errorf("Expected docket number from body, got %q", sr.DocketNumber)
	}
	if sr.Court != CourtCP {
		t.Errorf("Expected court CP, got %q", sr.Court)
	}
}

func TestFromTextClassifiesSummary(t *testing.T) {
	text := strings.Join([]string{
		"Court Summary",
		"Smith, John",
		"CP-51-CR-0001234-2010 Closed",
		"MJ-05204-CR-0000100-2015 Closed",
	}, "\n")

	sr := FromText(text)
	if sr == nil {
		t.Fatal("Expected a source record")
	}
	if sr.RecordType != RecTypeSummaryPDF {
		t.Errorf("Expected record type %q, got %q", RecTypeSummaryPDF, sr.RecordType)
	}
	want := "Summary(CP-51-CR-0001234-2010, MJ-05204-CR-0000100-2015)"
	if sr.DocketNumber != want {
		t.Errorf("Expected %q, got %q", want, sr.DocketNumber)
	}
}

func TestFromTextUnknown(t *testing.T) {
	if sr := FromText("an unrelated scanned letter"); sr != nil {
		t.Errorf("Expected nil for unrecognizable text, got %+v", sr)
	}
}
