package models

import (
	"strings"
	"testing"
)

func TestTowerSummarySelect_FiscalYearFilterReachesBudgetSubquery(t *testing.T) {
	fiscalYearId := 7

	query, args := towerSummarySelect(&fiscalYearId)

	if !strings.Contains(query, "AND s2.fiscal_year_id = ?") {
		t.Fatalf("the budget subquery must carry the fiscal-year filter:\n%s", query)
	}
	if len(args) != 1 || args[0] != 7 {
		t.Fatalf("expected the fiscal year id bound once, got %v", args)
	}
}

func TestTowerSummarySelect_Unfiltered(t *testing.T) {
	for _, fiscalYearId := range []*int{nil, intPtr(0)} {
		query, args := towerSummarySelect(fiscalYearId)
		if strings.Contains(query, "s2.fiscal_year_id") {
			t.Fatalf("no filter requested, subquery must stay unfiltered:\n%s", query)
		}
		if len(args) != 0 {
			t.Fatalf("expected no bound args, got %v", args)
		}
	}
}

func intPtr(v int) *int { return &v }
