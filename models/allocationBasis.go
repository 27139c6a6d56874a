package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationBasis is one-to-one with a service: the free-text scheme by
// which the service cost splits across entities, plus the declared total
// count. Upserted (not delete-then-create) by service id.
type AllocationBasis struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ServiceId  int             `gorm:"uniqueIndex;not null" json:"service_id"`
	BasisText  string          `gorm:"type:text" json:"basis_text"`
	TotalCount decimal.Decimal `gorm:"type:decimal(20,6)" json:"total_count"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// allocationBasisUpdates is the update map for an existing row. A nil
// basisText means the sheet carried no basis column; the stored text is
// kept, matching the selective overwrite on service fields.
func allocationBasisUpdates(basisText *string, totalCount decimal.Decimal) map[string]interface{} {
	updates := map[string]interface{}{"TotalCount": totalCount}
	if basisText != nil {
		updates["BasisText"] = *basisText
	}
	return updates
}

func UpsertAllocationBasis(tx *gorm.DB, serviceId int, basisText *string, totalCount decimal.Decimal) error {
	var existing AllocationBasis
	err := tx.Where("service_id = ?", serviceId).First(&existing).Error
	if err == nil {
		return tx.Model(&existing).Updates(allocationBasisUpdates(basisText, totalCount)).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	record := AllocationBasis{
		ServiceId:  serviceId,
		TotalCount: totalCount,
	}
	if basisText != nil {
		record.BasisText = *basisText
	}
	return tx.Create(&record).Error
}
