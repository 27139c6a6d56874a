package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyEntityActual is one amount for (service, entity, month 1-12).
// The full set per service is replaced on each import.
type MonthlyEntityActual struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ServiceId int             `gorm:"index:idx_mea_service_entity_month;not null" json:"service_id"`
	EntityId  int             `gorm:"index:idx_mea_service_entity_month;not null" json:"entity_id"`
	Month     int             `gorm:"index:idx_mea_service_entity_month;not null" json:"month"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,6)" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func ReplaceMonthlyEntityActuals(tx *gorm.DB, serviceId int, rows []*MonthlyEntityActual) error {
	if err := tx.Where("service_id = ?", serviceId).Delete(&MonthlyEntityActual{}).Error; err != nil {
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
