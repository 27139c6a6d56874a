package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceEntityAllocation is one BOA count for (service, entity). Counts
// can be fractional. The full set per service is replaced on each import.
type ServiceEntityAllocation struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ServiceId int             `gorm:"index:idx_sea_service_entity;not null" json:"service_id"`
	EntityId  int             `gorm:"index:idx_sea_service_entity;not null" json:"entity_id"`
	Count     decimal.Decimal `gorm:"type:decimal(20,6)" json:"count"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func ReplaceServiceEntityAllocations(tx *gorm.DB, serviceId int, rows []*ServiceEntityAllocation) error {
	if err := tx.Where("service_id = ?", serviceId).Delete(&ServiceEntityAllocation{}).Error; err != nil {
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
