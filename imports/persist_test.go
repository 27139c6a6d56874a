package imports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testRecord(uid string) *Record {
	return &Record{
		RowNumber: 2,
		Uid:       uid,
		Strings:   make(map[FieldRole]string),
		Dates:     make(map[FieldRole]*time.Time),
	}
}

func TestBaseServiceUpdates_CreateFillsDefaults(t *testing.T) {
	record := testRecord("SVC-FY26-0001")
	record.Strings[RoleDescription] = "Cloud hosting"

	updates := baseServiceUpdates(record, false)

	if updates["Description"] != "Cloud hosting" {
		t.Fatalf("expected description from the row, got %+v", updates)
	}
	// absent string columns are blanked on create
	for _, column := range []string{"Priority", "ContractId", "Remarks"} {
		v, ok := updates[column]
		if !ok || v != "" {
			t.Fatalf("expected %s defaulted to empty on create, got %+v", column, updates)
		}
	}
	for _, column := range []string{"StartDate", "EndDate", "RenewalDate"} {
		v, ok := updates[column]
		if !ok || v != nil {
			t.Fatalf("expected %s defaulted to nil on create, got %+v", column, updates)
		}
	}
	if _, ok := updates["AnnualBudget"]; ok {
		t.Fatalf("no monetary columns means no annual budget write, got %+v", updates)
	}
}

func TestBaseServiceUpdates_UpdateRetainsOmittedFields(t *testing.T) {
	record := testRecord("SVC-FY26-0001")
	record.Strings[RoleRemarks] = "renegotiated"

	updates := baseServiceUpdates(record, true)

	if updates["Remarks"] != "renegotiated" {
		t.Fatalf("expected remarks from the row, got %+v", updates)
	}
	// columns the row omits must not appear, or the update would blank
	// values written by earlier imports
	for _, column := range []string{"Description", "Priority", "ContractId", "StartDate", "EndDate", "RenewalDate", "AnnualBudget"} {
		if _, ok := updates[column]; ok {
			t.Fatalf("expected omitted %s untouched on update, got %+v", column, updates)
		}
	}
}

func TestBaseServiceUpdates_AnnualBudget(t *testing.T) {
	record := testRecord("SVC-FY26-0001")
	record.MonthAmounts = []MonthAmount{{Label: "Apr", Amount: dec("100")}}
	record.ReconciledTotal = dec("100")

	updates := baseServiceUpdates(record, true)
	total, ok := updates["AnnualBudget"].(decimal.Decimal)
	if !ok || !total.Equal(record.ReconciledTotal) {
		t.Fatalf("expected the reconciled total as annual budget, got %+v", updates)
	}

	declared := dec("250")
	record = testRecord("SVC-FY26-0002")
	record.DeclaredTotal = &declared
	record.ReconciledTotal = declared
	updates = baseServiceUpdates(record, true)
	if _, ok := updates["AnnualBudget"]; !ok {
		t.Fatalf("a declared total alone must still write the budget, got %+v", updates)
	}
}

func TestBaseServiceUpdates_DateSelectivity(t *testing.T) {
	parsed := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	record := testRecord("SVC-FY26-0001")
	record.Dates[RoleStartDate] = &parsed
	record.Dates[RoleEndDate] = nil // present but unparseable

	updates := baseServiceUpdates(record, true)
	if updates["StartDate"] != &parsed {
		t.Fatalf("expected parsed start date written, got %+v", updates)
	}
	if _, ok := updates["EndDate"]; ok {
		t.Fatalf("unparseable dates must not overwrite on update, got %+v", updates)
	}
}

func TestHasProcurementData(t *testing.T) {
	p := &persister{}

	record := testRecord("SVC-FY26-0001")
	if p.hasProcurementData(record) {
		t.Fatalf("empty record has no procurement data")
	}

	record.Strings[RolePoNumber] = "PO-123"
	if !p.hasProcurementData(record) {
		t.Fatalf("a po number is procurement data")
	}

	record = testRecord("SVC-FY26-0002")
	record.Amounts = map[FieldRole]decimal.Decimal{RolePrAmount: dec("0")}
	if p.hasProcurementData(record) {
		t.Fatalf("a zero amount alone is not procurement data")
	}
	record.Amounts[RolePoValue] = dec("1500")
	if !p.hasProcurementData(record) {
		t.Fatalf("a non-zero po value is procurement data")
	}
}
