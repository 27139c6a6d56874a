package imports

import (
	"testing"

	"github.com/ditfinops/opex_backend/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReconcileAmount_WithinToleranceKeepsDeclared(t *testing.T) {
	policy := BudgetImportPolicy()
	declared := dec("300.4")

	r := policy.ReconcileAmount(dec("300"), &declared)

	if r.Mismatch || r.Reject {
		t.Fatalf("diff within tolerance must not mismatch: %+v", r)
	}
	if !r.Persist.Equal(declared) {
		t.Fatalf("expected declared value persisted, got %s", r.Persist)
	}
}

func TestReconcileAmount_StrictPolicyRejects(t *testing.T) {
	policy := BudgetImportPolicy()
	declared := dec("400")

	r := policy.ReconcileAmount(dec("300"), &declared)

	if !r.Mismatch || !r.Reject {
		t.Fatalf("budget imports reject beyond tolerance: %+v", r)
	}
	if !r.Persist.Equal(dec("300")) {
		t.Fatalf("computed sum must be carried, got %s", r.Persist)
	}
}

func TestReconcileAmount_LenientPolicyOverwrites(t *testing.T) {
	policy := MasterMigrationPolicy()
	declared := dec("400")

	r := policy.ReconcileAmount(dec("300"), &declared)

	if !r.Mismatch {
		t.Fatalf("expected mismatch: %+v", r)
	}
	if r.Reject {
		t.Fatalf("migrations never reject on amount mismatch: %+v", r)
	}
	if !r.Persist.Equal(dec("300")) {
		t.Fatalf("computed sum wins on overwrite, got %s", r.Persist)
	}
}

func TestReconcileAmount_NoDeclaredTotal(t *testing.T) {
	policy := BudgetImportPolicy()

	r := policy.ReconcileAmount(dec("300"), nil)

	if r.Mismatch || r.Reject {
		t.Fatalf("no total column means nothing to reconcile: %+v", r)
	}
	if !r.Persist.Equal(dec("300")) {
		t.Fatalf("expected computed sum, got %s", r.Persist)
	}
}

func TestReconcileCount_ComputedSumWins(t *testing.T) {
	policy := BoaAllocationPolicy()
	declared := dec("10")

	r := policy.ReconcileCount(dec("8"), &declared)

	if !r.Mismatch {
		t.Fatalf("expected count mismatch: %+v", r)
	}
	if r.Reject {
		t.Fatalf("count mismatches never reject: %+v", r)
	}
	if !r.Persist.Equal(dec("8")) {
		t.Fatalf("computed count wins, got %s", r.Persist)
	}
}

func TestReconcileCount_WithinEpsilon(t *testing.T) {
	policy := BoaAllocationPolicy()
	declared := dec("8.005")

	r := policy.ReconcileCount(dec("8"), &declared)

	if r.Mismatch {
		t.Fatalf("diff within epsilon must not mismatch: %+v", r)
	}
	if !r.Persist.Equal(declared) {
		t.Fatalf("expected declared count persisted, got %s", r.Persist)
	}
}

func TestPolicyForImportType(t *testing.T) {
	cases := []struct {
		importType models.ImportType
		name       string
	}{
		{models.ImportTypeBudget, "budget-import"},
		{models.ImportTypeMigration, "master-migration"},
		{models.ImportTypeBoa, "boa-allocation"},
	}
	for _, tc := range cases {
		policy, ok := PolicyForImportType(tc.importType)
		if !ok || policy.Name != tc.name {
			t.Fatalf("PolicyForImportType(%s) expected %s, got %+v (%v)", tc.importType, tc.name, policy, ok)
		}
	}
	if _, ok := PolicyForImportType(models.ImportType("UNKNOWN")); ok {
		t.Fatalf("unknown import type must not resolve a policy")
	}
}

func TestFiscalYearFromUid(t *testing.T) {
	cases := []struct {
		uid      string
		expected string
	}{
		{"SVC-FY25-0042", "FY25"},
		{"svc-fy26-0001", "FY26"},
		{"SVC-0042", ""},
		{"FY2", ""},
	}
	for _, tc := range cases {
		if got := FiscalYearFromUid(tc.uid); got != tc.expected {
			t.Fatalf("FiscalYearFromUid(%q) expected %q, got %q", tc.uid, tc.expected, got)
		}
	}
}
