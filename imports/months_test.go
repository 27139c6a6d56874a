package imports

import "testing"

func TestNormalizeMonthLabel(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"4", "Apr", true},
		{"04", "Apr", true},
		{"12", "Dec", true},
		{"apr", "Apr", true},
		{"APRIL", "Apr", true},
		{" may ", "May", true},
		{"September", "Sep", true},
		{"13", "", false},
		{"0", "", false},
		{"mayhem", "", false},
		{"", "", false},
		{"Tower", "", false},
	}
	for _, tc := range cases {
		label, ok := NormalizeMonthLabel(tc.in)
		if ok != tc.ok || label != tc.expected {
			t.Fatalf("NormalizeMonthLabel(%q) expected (%q, %v), got (%q, %v)", tc.in, tc.expected, tc.ok, label, ok)
		}
	}
}

func TestMonthNumber(t *testing.T) {
	if n := MonthNumber("Apr"); n != 4 {
		t.Fatalf("MonthNumber(Apr) expected 4, got %d", n)
	}
	if n := MonthNumber("Dec"); n != 12 {
		t.Fatalf("MonthNumber(Dec) expected 12, got %d", n)
	}
	if n := MonthNumber("apr"); n != 0 {
		t.Fatalf("MonthNumber is exact-match only, got %d for %q", n, "apr")
	}
}
