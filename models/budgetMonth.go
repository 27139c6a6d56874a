package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetMonth is one budgeted amount per (service, MMM month label),
// produced by the budget-import pipeline. The full set per service is
// replaced on each import.
type BudgetMonth struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ServiceId  int             `gorm:"index:idx_bm_service_month;not null" json:"service_id"`
	MonthLabel string          `gorm:"index:idx_bm_service_month;size:3;not null" json:"month_label"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,6)" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func ReplaceBudgetMonths(tx *gorm.DB, serviceId int, rows []*BudgetMonth) error {
	if err := tx.Where("service_id = ?", serviceId).Delete(&BudgetMonth{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		row.ID = 0
		row.ServiceId = serviceId
	}
	return tx.Create(&rows).Error
}
