package types

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "docket_format", input: "01/15/1998", want: Date{1998, 1, 15}},
		{name: "single_digit_padded", input: "03/05/2010", want: Date{2010, 3, 5}},
		{name: "garbage", input: "Migrated", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{2010, 1, 1}
	if got := d.AddDays(90); !got.Equal(Date{2010, 4, 1}) {
		t.Errorf("AddDays(90) = %v, want 2010-04-01", got)
	}
	if got := d.DaysUntil(Date{2010, 1, 31}); got != 30 {
		t.Errorf("DaysUntil = %d, want 30", got)
	}
	years := (Date{2000, 1, 1}).YearsUntil(Date{2010, 1, 1})
	if years < 9.9 || years > 10.1 {
		t.Errorf("YearsUntil ~ %f, want about 10", years)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := Date{1998, 11, 30}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"1998-11-30"` {
		t.Errorf("marshal = %s, want \"1998-11-30\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
