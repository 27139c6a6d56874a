package utils

import (
	"strings"
	"testing"
)

func TestParseDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"20000", "20000"},
		{"20,000", "20000"},
		{"  1,234.50  ", "1234.5"},
		{"-250.75", "-250.75"},
	}
	for _, tc := range cases {
		d, err := ParseDecimal(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseDecimal(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseDecimal_RejectsNonNumeric(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12abc"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Fatalf("ParseDecimal(%q) expected error", in)
		}
	}
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("budget.xlsx")
	b := GenerateUniqueFilename("budget.xlsx")

	if a == b {
		t.Fatalf("filenames must be unique, got %q twice", a)
	}
	if !strings.HasPrefix(a, "budget_") || !strings.HasSuffix(a, ".xlsx") {
		t.Fatalf("filename must keep base and extension, got %q", a)
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected deduplicated order-preserving slice, got %v", got)
	}
}
