package imports

import (
	"github.com/ditfinops/opex_backend/models"
	"github.com/shopspring/decimal"
)

// MismatchAction decides what happens when a declared total disagrees
// with the computed sum beyond tolerance.
type MismatchAction int

const (
	// MismatchReject drops the row with a "Total mismatch" error.
	MismatchReject MismatchAction = iota
	// MismatchOverwrite logs the discrepancy and persists the computed
	// value in place of the declared one.
	MismatchOverwrite
)

// Policy parameterizes the one import pipeline. The three named
// policies deliberately diverge: strict validation on routine budget
// uploads, best-effort reconciliation on one-off migrations.
type Policy struct {
	Name       string
	ImportType models.ImportType

	// MonetaryTolerance bounds |computed - declared| for money totals.
	MonetaryTolerance decimal.Decimal
	// CountEpsilon bounds |computed - declared| for allocation counts.
	CountEpsilon decimal.Decimal

	AmountMismatchAction MismatchAction

	// CreateMissingMasters is the policy default; the per-request flag
	// can still turn it on.
	CreateMissingMasters bool

	// MatchServiceByNameOrVendor lets the identifier column match an
	// existing service by description or vendor name when no service
	// carries it as a UID. Rows that create services always key by UID.
	MatchServiceByNameOrVendor bool

	// IdentifierAliases are extra header aliases for the identifier
	// column, checked ahead of the shared alias table. The BOA sheet
	// heads its identifier column "Vendor/Service".
	IdentifierAliases []string

	// BudgetMonthsFromLabels persists bare-month columns as BudgetMonth
	// rows (the budget sheet layout) instead of requiring entity-tagged
	// monthly columns.
	BudgetMonthsFromLabels bool

	// UpsertServices controls whether unknown UIDs create services.
	// The BOA sheet only attaches counts to services that already exist.
	UpsertServices bool
}

func BudgetImportPolicy() Policy {
	return Policy{
		Name:                   "budget-import",
		ImportType:             models.ImportTypeBudget,
		MonetaryTolerance:      decimal.NewFromFloat(0.5),
		CountEpsilon:           decimal.NewFromFloat(0.01),
		AmountMismatchAction:   MismatchReject,
		BudgetMonthsFromLabels: true,
		UpsertServices:         true,
	}
}

func MasterMigrationPolicy() Policy {
	return Policy{
		Name:                 "master-migration",
		ImportType:           models.ImportTypeMigration,
		MonetaryTolerance:    decimal.NewFromFloat(1.0),
		CountEpsilon:         decimal.NewFromFloat(0.01),
		AmountMismatchAction: MismatchOverwrite,
		CreateMissingMasters: true,
		UpsertServices:       true,
	}
}

func BoaAllocationPolicy() Policy {
	return Policy{
		Name:                       "boa-allocation",
		ImportType:                 models.ImportTypeBoa,
		MonetaryTolerance:          decimal.NewFromFloat(1.0),
		CountEpsilon:               decimal.NewFromFloat(0.01),
		AmountMismatchAction:       MismatchOverwrite,
		MatchServiceByNameOrVendor: true,
		IdentifierAliases:          []string{"vendor/service", "vendor / service"},
		UpsertServices:             false,
	}
}

func PolicyForImportType(importType models.ImportType) (Policy, bool) {
	switch importType {
	case models.ImportTypeBudget:
		return BudgetImportPolicy(), true
	case models.ImportTypeMigration:
		return MasterMigrationPolicy(), true
	case models.ImportTypeBoa:
		return BoaAllocationPolicy(), true
	}
	return Policy{}, false
}

// Reconciliation outcome for one row total.
type Reconciliation struct {
	Mismatch bool
	// Persist is the value to store (declared when within tolerance,
	// computed otherwise per policy).
	Persist decimal.Decimal
	Reject  bool
}

// ReconcileAmount compares the computed monthly sum with the declared
// total. A nil declared total means the sheet has no total column and
// the computed sum is used unconditionally.
func (p Policy) ReconcileAmount(computed decimal.Decimal, declared *decimal.Decimal) Reconciliation {
	if declared == nil {
		return Reconciliation{Persist: computed}
	}
	diff := computed.Sub(*declared).Abs()
	if diff.LessThanOrEqual(p.MonetaryTolerance) {
		return Reconciliation{Persist: *declared}
	}
	if p.AmountMismatchAction == MismatchReject {
		return Reconciliation{Mismatch: true, Persist: computed, Reject: true}
	}
	return Reconciliation{Mismatch: true, Persist: computed}
}

// ReconcileCount compares the computed entity-count sum with the
// declared total count. The computed sum always wins beyond epsilon.
func (p Policy) ReconcileCount(computed decimal.Decimal, declared *decimal.Decimal) Reconciliation {
	if declared == nil {
		return Reconciliation{Persist: computed}
	}
	diff := computed.Sub(*declared).Abs()
	if diff.LessThanOrEqual(p.CountEpsilon) {
		return Reconciliation{Persist: *declared}
	}
	return Reconciliation{Mismatch: true, Persist: computed}
}
