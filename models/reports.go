package models

import (
	"context"

	"github.com/ditfinops/opex_backend/config"
	"github.com/shopspring/decimal"
)

type TowerSummaryRow struct {
	TowerId      int             `json:"tower_id"`
	TowerName    string          `json:"tower_name"`
	ServiceCount int             `json:"service_count"`
	TotalActual  decimal.Decimal `json:"total_actual"`
	TotalBudget  decimal.Decimal `json:"total_budget"`
}

// towerSummarySelect builds the aggregate select list. The budget
// subquery carries the same fiscal-year filter as the outer actuals;
// without it a filtered summary compares one year's actuals against
// every year's budget.
func towerSummarySelect(fiscalYearId *int) (string, []interface{}) {
	budgetFilter := ""
	var args []interface{}
	if fiscalYearId != nil && *fiscalYearId > 0 {
		budgetFilter = " AND s2.fiscal_year_id = ?"
		args = append(args, *fiscalYearId)
	}
	query := `t.id AS tower_id,
		t.name AS tower_name,
		COUNT(DISTINCT s.id) AS service_count,
		COALESCE(SUM(mea.amount), 0) AS total_actual,
		COALESCE((SELECT SUM(bm.amount) FROM budget_months bm
			JOIN services s2 ON s2.id = bm.service_id
			WHERE s2.tower_id = t.id` + budgetFilter + `), 0) AS total_budget`
	return query, args
}

// GetTowerSummary aggregates actual and budgeted spend per tower.
func GetTowerSummary(ctx context.Context, fiscalYearId *int) ([]*TowerSummaryRow, error) {

	db := config.GetDB()
	var results []*TowerSummaryRow

	selectQuery, selectArgs := towerSummarySelect(fiscalYearId)
	dbCtx := db.WithContext(ctx).
		Table("services s").
		Select(selectQuery, selectArgs...).
		Joins("JOIN towers t ON t.id = s.tower_id").
		Joins("LEFT JOIN monthly_entity_actuals mea ON mea.service_id = s.id").
		Group("t.id, t.name").
		Order("t.name")
	if fiscalYearId != nil && *fiscalYearId > 0 {
		dbCtx = dbCtx.Where("s.fiscal_year_id = ?", *fiscalYearId)
	}

	if err := dbCtx.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type EntityMonthlyRow struct {
	EntityId   int             `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	Month      int             `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
}

// GetEntityMonthly aggregates actuals per entity per month.
func GetEntityMonthly(ctx context.Context, entityId *int, fiscalYearId *int) ([]*EntityMonthlyRow, error) {

	db := config.GetDB()
	var results []*EntityMonthlyRow

	dbCtx := db.WithContext(ctx).
		Table("monthly_entity_actuals mea").
		Select(`e.id AS entity_id,
			e.name AS entity_name,
			mea.month AS month,
			COALESCE(SUM(mea.amount), 0) AS amount`).
		Joins("JOIN entities e ON e.id = mea.entity_id").
		Joins("JOIN services s ON s.id = mea.service_id").
		Group("e.id, e.name, mea.month").
		Order("e.name, mea.month")
	if entityId != nil && *entityId > 0 {
		dbCtx = dbCtx.Where("mea.entity_id = ?", *entityId)
	}
	if fiscalYearId != nil && *fiscalYearId > 0 {
		dbCtx = dbCtx.Where("s.fiscal_year_id = ?", *fiscalYearId)
	}

	if err := dbCtx.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type FiscalYearSummaryRow struct {
	FiscalYearId   int             `json:"fiscal_year_id"`
	FiscalYearName string          `json:"fiscal_year_name"`
	ServiceCount   int             `json:"service_count"`
	TotalActual    decimal.Decimal `json:"total_actual"`
}

// GetFiscalYearSummary aggregates actual spend per fiscal year.
func GetFiscalYearSummary(ctx context.Context) ([]*FiscalYearSummaryRow, error) {

	db := config.GetDB()
	var results []*FiscalYearSummaryRow

	err := db.WithContext(ctx).
		Table("services s").
		Select(`fy.id AS fiscal_year_id,
			fy.name AS fiscal_year_name,
			COUNT(DISTINCT s.id) AS service_count,
			COALESCE(SUM(mea.amount), 0) AS total_actual`).
		Joins("JOIN fiscal_years fy ON fy.id = s.fiscal_year_id").
		Joins("LEFT JOIN monthly_entity_actuals mea ON mea.service_id = s.id").
		Group("fy.id, fy.name").
		Order("fy.name").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
