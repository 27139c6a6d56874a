package imports

import (
	"strings"
	"testing"
)

func mustClassify(t *testing.T, headers []string) *HeaderMapping {
	t.Helper()
	mapping, err := ClassifyHeaders(headers, nil)
	if err != nil {
		t.Fatalf("ClassifyHeaders(%v) error: %v", headers, err)
	}
	return mapping
}

func TestNormalizeRow_SumsMonthlyColumns(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "Tower", "04 - Finance", "05 - Finance"})

	record := NormalizeRow(2, []string{"X-1", "IT", "100", "200"}, mapping)

	if len(record.Errors) != 0 {
		t.Fatalf("unexpected row errors: %v", record.Errors)
	}
	if record.Uid != "X-1" {
		t.Fatalf("expected uid X-1, got %q", record.Uid)
	}
	if record.Strings[RoleTower] != "IT" {
		t.Fatalf("expected tower IT, got %q", record.Strings[RoleTower])
	}
	if record.MonthlySum.String() != "300" {
		t.Fatalf("expected monthly sum 300, got %s", record.MonthlySum)
	}
	if len(record.MonthlyAmounts) != 2 {
		t.Fatalf("expected 2 monthly amounts, got %+v", record.MonthlyAmounts)
	}
	if record.MonthlyAmounts[0].Month != 4 || record.MonthlyAmounts[0].Entity != "Finance" {
		t.Fatalf("unexpected first monthly amount: %+v", record.MonthlyAmounts[0])
	}
}

func TestNormalizeRow_MissingUidRejects(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "Tower"})

	record := NormalizeRow(3, []string{"", "IT"}, mapping)

	if record.Uid != "" {
		t.Fatalf("expected empty uid, got %q", record.Uid)
	}
	if len(record.Errors) != 1 || record.Errors[0] != "Missing UID / identifier" {
		t.Fatalf("expected missing-uid error, got %v", record.Errors)
	}
}

func TestNormalizeRow_InvalidAmountErrorsButKeepsSumming(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "04 - Finance", "05 - Finance"})

	record := NormalizeRow(2, []string{"X-2", "abc", "200"}, mapping)

	if len(record.Errors) != 1 {
		t.Fatalf("expected one error, got %v", record.Errors)
	}
	if !strings.Contains(record.Errors[0], `"abc"`) || !strings.Contains(record.Errors[0], "04 - Finance") {
		t.Fatalf("error should name the value and column, got %q", record.Errors[0])
	}
	if record.MonthlySum.String() != "200" {
		t.Fatalf("invalid cell coerces to zero; expected sum 200, got %s", record.MonthlySum)
	}
}

func TestNormalizeRow_BlankAmountIsZero(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "04 - Finance", "05 - Finance"})

	record := NormalizeRow(2, []string{"X-3", "", "150"}, mapping)

	if len(record.Errors) != 0 {
		t.Fatalf("blank cells are not errors, got %v", record.Errors)
	}
	if record.MonthlySum.String() != "150" {
		t.Fatalf("expected sum 150, got %s", record.MonthlySum)
	}
}

func TestNormalizeRow_FormattedAmounts(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "04 - Finance", "Total"})

	record := NormalizeRow(2, []string{"X-4", "1,234.50", "1,234.50"}, mapping)

	if record.MonthlySum.String() != "1234.5" {
		t.Fatalf("expected comma-formatted amount to parse, got %s", record.MonthlySum)
	}
	if record.DeclaredTotal == nil || record.DeclaredTotal.String() != "1234.5" {
		t.Fatalf("expected declared total 1234.5, got %v", record.DeclaredTotal)
	}
}

func TestNormalizeRow_DeclaredTotalBlankIsNil(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "04 - Finance", "Total"})

	record := NormalizeRow(2, []string{"X-5", "100", ""}, mapping)

	if record.DeclaredTotal != nil {
		t.Fatalf("blank total column must stay nil, got %v", record.DeclaredTotal)
	}
}

func TestNormalizeRow_DatesParsePermissively(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "Start Date", "End Date"})

	record := NormalizeRow(2, []string{"X-6", "2026-04-01", "not a date"}, mapping)

	if len(record.Errors) != 0 {
		t.Fatalf("date failures never error the row, got %v", record.Errors)
	}
	start := record.Dates[RoleStartDate]
	if start == nil || start.Year() != 2026 || int(start.Month()) != 4 {
		t.Fatalf("expected 2026-04-01 start date, got %v", start)
	}
	if record.Dates[RoleEndDate] != nil {
		t.Fatalf("unparseable date must be nil, got %v", record.Dates[RoleEndDate])
	}
}

func TestNormalizeRow_EntityCounts(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "Total Count", "Finance", "HR"})

	record := NormalizeRow(2, []string{"X-7", "5", "3", "2"}, mapping)

	if len(record.EntityCounts) != 2 {
		t.Fatalf("expected 2 entity counts, got %+v", record.EntityCounts)
	}
	if record.CountSum.String() != "5" {
		t.Fatalf("expected count sum 5, got %s", record.CountSum)
	}
	if record.DeclaredCount == nil || record.DeclaredCount.String() != "5" {
		t.Fatalf("expected declared count 5, got %v", record.DeclaredCount)
	}
}

func TestNormalizeRow_RaggedRow(t *testing.T) {
	mapping := mustClassify(t, []string{"UID", "Tower", "04 - Finance", "05 - Finance"})

	// sheet rows can be shorter than the header row
	record := NormalizeRow(2, []string{"X-8", "IT"}, mapping)

	if len(record.Errors) != 0 {
		t.Fatalf("ragged rows are not errors, got %v", record.Errors)
	}
	if record.MonthlySum.String() != "0" {
		t.Fatalf("expected zero sum for missing cells, got %s", record.MonthlySum)
	}
}
