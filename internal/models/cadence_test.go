package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Weekday
		wantErr bool
	}{
		{name: "names", input: "mon,wednesday", want: []Weekday{Monday, Wednesday}},
		{name: "mixed case and spaces", input: " Sat , SUN ", want: []Weekday{Saturday, Sunday}},
		{name: "numbers", input: "1,7", want: []Weekday{Sunday, Saturday}},
		{name: "empty", input: "", want: nil},
		{name: "zero is not a weekday", input: "0", wantErr: true},
		{name: "garbage", input: "mon,funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeekday) {
					t.Fatalf("expected ErrInvalidWeekday, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseWeekdays(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-01-04 is a Sunday
	sunday := time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC)
	for i, want := range []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday} {
		if got := WeekdayOf(sunday.AddDate(0, 0, i)); got != want {
			t.Errorf("WeekdayOf(+%d) = %v, want %v", i, got, want)
		}
	}
}

func TestParseCadenceType(t *testing.T) {
	for _, s := range []string{"daily", "Weekly", " MONTHLY ", "yearly"} {
		if _, err := ParseCadenceType(s); err != nil {
			t.Errorf("ParseCadenceType(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseCadenceType("hourly"); !errors.Is(err, ErrInvalidCadence) {
		t.Errorf("expected ErrInvalidCadence, got %v", err)
	}
}

func TestCadence_ValueScan(t *testing.T) {
	original := Yearly(14, time.February)

	v, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("expected string value, got %T", v)
	}
	if s != `{"type":"yearly","day":14,"month":2}` {
		t.Errorf("unexpected encoding %s", s)
	}

	var decoded Cadence
	if err := decoded.Scan([]byte(s)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if decoded.Type != CadenceYearly || *decoded.Day != 14 || *decoded.Month != 2 {
		t.Errorf("decoded cadence mismatch: %+v", decoded)
	}

	if err := decoded.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestCadence_String(t *testing.T) {
	tests := []struct {
		cadence Cadence
		want    string
	}{
		{Daily(), "daily"},
		{Weekly(Wednesday, Monday), "weekly on Mon,Wed"},
		{Weekly(), "weekly (no days)"},
		{Monthly(15), "monthly on day 15"},
		{Yearly(1, time.March), "yearly on Mar 1"},
		{Cadence{Type: CadenceYearly}, "yearly (no date)"},
	}
	for _, tt := range tests {
		if got := tt.cadence.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
