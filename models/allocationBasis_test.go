package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAllocationBasisUpdates_NilTextKeepsStoredText(t *testing.T) {
	count := decimal.NewFromInt(12)

	updates := allocationBasisUpdates(nil, count)

	if _, ok := updates["BasisText"]; ok {
		t.Fatalf("a sheet without a basis column must not touch the stored text, got %+v", updates)
	}
	total, ok := updates["TotalCount"].(decimal.Decimal)
	if !ok || !total.Equal(count) {
		t.Fatalf("expected total count %s, got %+v", count, updates)
	}
}

func TestAllocationBasisUpdates_TextOverwritesWhenPresent(t *testing.T) {
	text := "Headcount"
	count := decimal.NewFromInt(8)

	updates := allocationBasisUpdates(&text, count)

	if updates["BasisText"] != "Headcount" {
		t.Fatalf("expected basis text written, got %+v", updates)
	}
	if len(updates) != 2 {
		t.Fatalf("expected exactly BasisText and TotalCount, got %+v", updates)
	}
}
