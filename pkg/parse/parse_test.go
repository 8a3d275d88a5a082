package parse

import (
	"regexp"
	"testing"
)

func TestFindPattern(t *testing.T) {
	pattern := regexp.MustCompile(`Docket Number:\s+(?P<docket_number>\S+)`)

	m, errs := FindPattern("docket_number", pattern, "Docket Number:  CP-51-CR-0000001-2015")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := m.Group("docket_number"); got != "CP-51-CR-0000001-2015" {
		t.Errorf("Group = %q", got)
	}

	m, errs = FindPattern("docket_number", pattern, "no docket here")
	if m != nil {
		t.Errorf("expected nil match")
	}
	if len(errs) != 1 || errs[0] != "Could not find docket_number" {
		t.Errorf("errs = %v", errs)
	}
}

func TestFindIndexForPattern(t *testing.T) {
	seq := regexp.MustCompile(`Seq\.`)
	header := "  Seq.     Grade   Statute"
	if got := FindIndexForPattern(seq, header); got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	if got := FindIndexForPattern(seq, "no columns"); got != -1 {
		t.Errorf("index = %d, want -1", got)
	}
}

func TestWordStartingNear(t *testing.T) {
	line := "   The word      is pizza"

	cases := []struct {
		name string
		col  int
		want string
	}{
		{name: "first_phrase", col: 4, want: "The word"},
		{name: "second_phrase", col: 18, want: "is pizza"},
		{name: "past_line_end", col: 80, want: ""},
		{name: "inside_gap", col: 13, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WordStartingNear(tc.col, line); got != tc.want {
				t.Errorf("WordStartingNear(%d) = %q, want %q", tc.col, got, tc.want)
			}
		})
	}
}

func TestMapLine(t *testing.T) {
	cols := ColumnSpec{"A": 0, "B": 20}
	line := "Joe                 Smith"

	got := MapLine(line, cols)
	if got["A"] != "Joe" || got["B"] != "Smith" {
		t.Errorf("MapLine = %v, want A=Joe B=Smith", got)
	}
}

func TestMapLineMissingColumn(t *testing.T) {
	cols := ColumnSpec{"present": 0, "absent": -1}
	got := MapLine("value", cols)
	if got["present"] != "value" {
		t.Errorf("present = %q", got["present"])
	}
	if got["absent"] != "" {
		t.Errorf("absent = %q, want empty", got["absent"])
	}
}

func TestDateOrNil(t *testing.T) {
	if d := DateOrNil("01/15/1998"); d == nil || d.Year != 1998 {
		t.Errorf("DateOrNil = %v", d)
	}
	if d := DateOrNil(" 12/01/2003 "); d == nil || d.Month != 12 {
		t.Errorf("DateOrNil with padding = %v", d)
	}
	if d := DateOrNil("Migrated"); d != nil {
		t.Errorf("expected nil for garbage, got %v", d)
	}
}

func TestMoneyOrNil(t *testing.T) {
	if m := MoneyOrNil("1,303.77"); m == nil || *m != 1303.77 {
		t.Errorf("MoneyOrNil = %v", m)
	}
	if m := MoneyOrNil("not money"); m != nil {
		t.Errorf("expected nil, got %v", *m)
	}
}

func TestIntOrNil(t *testing.T) {
	if n := IntOrNil(" 3"); n == nil || *n != 3 {
		t.Errorf("IntOrNil = %v", n)
	}
	if n := IntOrNil("3 / Added"); n != nil {
		t.Errorf("expected nil, got %v", *n)
	}
}
