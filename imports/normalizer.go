package imports

import (
	"fmt"
	"time"

	"github.com/ditfinops/opex_backend/utils"
	"github.com/shopspring/decimal"
)

type MonthlyAmount struct {
	Month  int
	Entity string
	Amount decimal.Decimal
}

type MonthAmount struct {
	Label  string
	Amount decimal.Decimal
}

type EntityCount struct {
	Entity string
	Count  decimal.Decimal
}

// Record is one normalized sheet row, ready for reconciliation and
// persistence. Errors is non-empty for rejected rows.
type Record struct {
	RowNumber int
	Uid       string

	Strings map[FieldRole]string
	Dates   map[FieldRole]*time.Time
	Amounts map[FieldRole]decimal.Decimal

	MonthlyAmounts []MonthlyAmount
	MonthAmounts   []MonthAmount
	EntityCounts   []EntityCount

	MonthlySum decimal.Decimal
	CountSum   decimal.Decimal

	DeclaredTotal *decimal.Decimal
	DeclaredCount *decimal.Decimal

	// Filled by reconciliation before persistence.
	ReconciledTotal decimal.Decimal
	ReconciledCount decimal.Decimal

	Errors []string
}

var stringRoles = []FieldRole{
	RoleDescription, RoleVendor, RoleTower, RoleBudgetHead, RoleServiceType,
	RoleFiscalYear, RolePOEntity, RolePriority, RoleContractId, RoleRemarks,
	RolePrNumber, RolePoNumber, RoleCurrency, RoleAllocationBasis,
}

var dateRoles = []FieldRole{
	RoleStartDate, RoleEndDate, RoleRenewalDate, RolePrDate, RolePoDate,
}

var amountRoles = []FieldRole{
	RolePrAmount, RolePoValue, RoleCommonCurrencyValue,
}

var dateLayouts = []string{
	"2006-01-02", "02/01/2006", "01/02/2006", "2-Jan-06", "2-Jan-2006",
	"Jan 2, 2006", "2006/01/02", "02-01-2006",
}

// NormalizeRow converts one raw row into a Record. rowNumber is the
// 1-based sheet row (header row is 1).
func NormalizeRow(rowNumber int, cells []string, mapping *HeaderMapping) *Record {
	record := &Record{
		RowNumber: rowNumber,
		Strings:   make(map[FieldRole]string),
		Dates:     make(map[FieldRole]*time.Time),
		Amounts:   make(map[FieldRole]decimal.Decimal),
	}

	// UID is never defaulted; a blank UID rejects the row outright.
	record.Uid = Cell(cells, mapping.Fields[RoleUID])
	if record.Uid == "" {
		record.Errors = append(record.Errors, "Missing UID / identifier")
		return record
	}

	for _, role := range stringRoles {
		col, ok := mapping.Fields[role]
		if !ok {
			continue
		}
		if v := Cell(cells, col); v != "" {
			record.Strings[role] = v
		}
	}

	// Dates parse permissively; failures yield nil, never an error.
	for _, role := range dateRoles {
		col, ok := mapping.Fields[role]
		if !ok {
			continue
		}
		record.Dates[role] = parseDate(Cell(cells, col))
	}

	for _, role := range amountRoles {
		col, ok := mapping.Fields[role]
		if !ok {
			continue
		}
		record.Amounts[role] = coerceAmount(record, Cell(cells, col), mapping.RawHeader(col))
	}

	sum := decimal.Zero
	for _, mc := range mapping.MonthlyColumns {
		amount := coerceAmount(record, Cell(cells, mc.Col), mapping.RawHeader(mc.Col))
		record.MonthlyAmounts = append(record.MonthlyAmounts, MonthlyAmount{
			Month:  mc.Month,
			Entity: mc.Entity,
			Amount: amount,
		})
		sum = sum.Add(amount)
	}
	for _, mc := range mapping.MonthColumns {
		amount := coerceAmount(record, Cell(cells, mc.Col), mapping.RawHeader(mc.Col))
		record.MonthAmounts = append(record.MonthAmounts, MonthAmount{
			Label:  mc.Label,
			Amount: amount,
		})
		sum = sum.Add(amount)
	}
	record.MonthlySum = sum

	countSum := decimal.Zero
	for _, cc := range mapping.CountColumns {
		count := coerceAmount(record, Cell(cells, cc.Col), mapping.RawHeader(cc.Col))
		record.EntityCounts = append(record.EntityCounts, EntityCount{
			Entity: cc.Entity,
			Count:  count,
		})
		countSum = countSum.Add(count)
	}
	record.CountSum = countSum

	if col, ok := mapping.Fields[RoleDeclaredTotal]; ok {
		record.DeclaredTotal = optionalAmount(record, Cell(cells, col), mapping.RawHeader(col))
	}
	if col, ok := mapping.Fields[RoleDeclaredCount]; ok {
		record.DeclaredCount = optionalAmount(record, Cell(cells, col), mapping.RawHeader(col))
	}

	return record
}

// coerceAmount treats blank as zero; non-blank non-numeric input records
// a row error and still yields zero.
func coerceAmount(record *Record, raw string, header string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	value, err := utils.ParseDecimal(raw)
	if err != nil {
		record.Errors = append(record.Errors, fmt.Sprintf("Invalid amount %q in column %q", raw, header))
		return decimal.Zero
	}
	return value
}

// optionalAmount distinguishes "no declared total" (blank cell) from a
// declared zero.
func optionalAmount(record *Record, raw string, header string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	value, err := utils.ParseDecimal(raw)
	if err != nil {
		record.Errors = append(record.Errors, fmt.Sprintf("Invalid amount %q in column %q", raw, header))
		return nil
	}
	return &value
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// RawHeader returns the raw header text of a 1-indexed column.
func (m *HeaderMapping) RawHeader(col int) string {
	if col < 1 || col > len(m.RawHeaders) {
		return ""
	}
	return m.RawHeaders[col-1]
}
