package imports

import (
	"context"
	"testing"
)

// Dry runs exercise the whole read/classify/normalize/reconcile path
// without touching the database.
func TestRun_DryRunBudgetImport(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"UID", "Tower", "04 - Finance", "05 - Finance", "Total"},
		{"SVC-FY26-0001", "IT", 100, 200, 300},
		{"SVC-FY26-0002", "IT", 100, 200, 350},
		{"", "IT", 5, 5, 10},
		{"", "", "", "", ""},
	})

	outcome, err := Run(context.Background(), BudgetImportPolicy(), data, Options{
		DryRun:   true,
		Filename: "budget.xlsx",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if outcome.DryRun == nil || outcome.Result != nil {
		t.Fatalf("expected a dry-run outcome, got %+v", outcome)
	}

	report := outcome.DryRun.Report
	if report.TotalRows != 3 {
		t.Fatalf("empty rows are skipped; expected 3 total rows, got %d", report.TotalRows)
	}
	if len(report.Accepted) != 1 || report.Accepted[0].Row != 2 {
		t.Fatalf("expected only row 2 accepted, got %+v", report.Accepted)
	}
	if len(report.Rejected) != 2 {
		t.Fatalf("expected 2 rejected rows, got %+v", report.Rejected)
	}

	byRow := make(map[int]RejectedRow)
	for _, r := range report.Rejected {
		byRow[r.Row] = r
	}
	if r := byRow[3]; len(r.Errors) != 1 || r.Errors[0] != "Total mismatch" {
		t.Fatalf("row 3 must reject on total mismatch, got %+v", r)
	}
	if r := byRow[4]; len(r.Errors) != 1 || r.Errors[0] != "Missing UID / identifier" {
		t.Fatalf("row 4 must reject on missing uid, got %+v", r)
	}

	summary := outcome.DryRun.HeaderMapping
	if len(summary.RawHeaders) != 5 {
		t.Fatalf("expected 5 raw headers, got %v", summary.RawHeaders)
	}
	if summary.NormalizedHeaders["04 - Finance"] != "monthly:Apr:Finance" {
		t.Fatalf("unexpected normalized header: %v", summary.NormalizedHeaders)
	}
}

func TestRun_DryRunLenientPolicyKeepsMismatchedRows(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"UID", "Description", "04 - Finance", "Total"},
		{"SVC-FY26-0003", "Cloud hosting", 100, 500},
	})

	outcome, err := Run(context.Background(), MasterMigrationPolicy(), data, Options{
		DryRun:   true,
		Filename: "migration.xlsx",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	report := outcome.DryRun.Report
	if len(report.Accepted) != 1 || len(report.Rejected) != 0 {
		t.Fatalf("lenient policy keeps mismatched rows, got %+v", report)
	}
}

func TestRun_DryRunBoaAllocationSheet(t *testing.T) {
	// The BOA sheet layout: identifier headed "Vendor/Service", no
	// monthly columns, entity counts to the right of Total Count.
	data := buildWorkbook(t, [][]interface{}{
		{"Vendor/Service", "Basis of Allocation", "Total Count", "Finance", "HR"},
		{"Cloud hosting", "Headcount", 10, 6, 4},
		{"Security tooling", "Per device", 12, 5, 5},
	})

	outcome, err := Run(context.Background(), BoaAllocationPolicy(), data, Options{
		DryRun:   true,
		Filename: "boa.xlsx",
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	report := outcome.DryRun.Report
	if report.TotalRows != 2 || len(report.Rejected) != 0 {
		t.Fatalf("both rows must pass classification, got %+v", report)
	}
	if len(report.Accepted) != 2 {
		t.Fatalf("expected 2 accepted rows, got %+v", report.Accepted)
	}
	if report.Accepted[0].Uid != "Cloud hosting" {
		t.Fatalf("the identifier column feeds the uid, got %+v", report.Accepted[0])
	}

	normalized := outcome.DryRun.HeaderMapping.NormalizedHeaders
	if normalized["Vendor/Service"] != "uid" {
		t.Fatalf("expected Vendor/Service to normalize to uid, got %v", normalized)
	}
	if normalized["Finance"] != "entity_count:Finance" {
		t.Fatalf("expected Finance as an entity count column, got %v", normalized)
	}
}

func TestRun_MissingUIDColumnFailsPipeline(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Tower", "04 - Finance"},
		{"IT", 100},
	})

	_, err := Run(context.Background(), BudgetImportPolicy(), data, Options{DryRun: true})
	if err != ErrMissingUIDColumn {
		t.Fatalf("expected ErrMissingUIDColumn, got %v", err)
	}
}

func TestRun_CustomMappingOverridesHeaders(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Ref", "04 - Finance"},
		{"SVC-FY26-0004", 100},
	})

	outcome, err := Run(context.Background(), BudgetImportPolicy(), data, Options{
		DryRun:        true,
		CustomMapping: map[string]FieldRole{"Ref": RoleUID},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outcome.DryRun.Report.Accepted) != 1 {
		t.Fatalf("expected the custom-mapped uid to accept the row, got %+v", outcome.DryRun.Report)
	}
}

func TestRowIsEmpty(t *testing.T) {
	if !rowIsEmpty([]string{"", "  ", ""}) {
		t.Fatalf("whitespace-only rows are empty")
	}
	if rowIsEmpty([]string{"", "x"}) {
		t.Fatalf("rows with content are not empty")
	}
	if !rowIsEmpty(nil) {
		t.Fatalf("nil rows are empty")
	}
}
