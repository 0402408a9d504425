package amount

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"150,00", true},
		{"1.234,56", true},
		{"12.345.678,90", true},
		{"267,17", true},
		{"0,99", true},
		{"150,00€", true},
		{"1234,56", false}, // four digits before the comma need a dot group
		{"150.00", false},
		{"150", false},
		{"TOTAL", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.in); got != tt.want {
			t.Errorf("Matches(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"150,00", "150", true},
		{"1.234,56", "1234.56", true},
		{"267,17", "267.17", true},
		{"267,17€", "267.17", true},
		{"abc", "", false},
	}

	for _, tt := range tests {
		d, ok := Normalize(tt.in)
		if ok != tt.ok {
			t.Errorf("Normalize(%q): expected ok=%v, got %v", tt.in, tt.ok, ok)
			continue
		}
		if ok && d.String() != tt.want {
			t.Errorf("Normalize(%q): expected %s, got %s", tt.in, tt.want, d.String())
		}
	}
}

func TestLargest(t *testing.T) {
	got, ok := Largest([]string{"100,00", "267,17", "50,00"})
	if !ok {
		t.Fatal("expected a result")
	}
	if got != "267,17" {
		t.Errorf("expected 267,17, got %s", got)
	}
}

func TestLargest_KeepsOriginalForm(t *testing.T) {
	got, ok := Largest([]string{"999,99", "1.000,00"})
	if !ok {
		t.Fatal("expected a result")
	}
	if got != "1.000,00" {
		t.Errorf("expected 1.000,00, got %s", got)
	}
}

func TestLargest_SkipsUnparsable(t *testing.T) {
	got, ok := Largest([]string{"no", "42,10", "tampoco"})
	if !ok || got != "42,10" {
		t.Errorf("expected 42,10, got %q (ok=%v)", got, ok)
	}

	if _, ok := Largest(nil); ok {
		t.Error("expected no result for empty input")
	}
	if _, ok := Largest([]string{"x", "y"}); ok {
		t.Error("expected no result when nothing parses")
	}
}

func TestLargest_TieKeepsEarliest(t *testing.T) {
	got, ok := Largest([]string{"150,00", "150,00€"})
	if !ok || got != "150,00" {
		t.Errorf("expected first candidate on tie, got %q (ok=%v)", got, ok)
	}
}
