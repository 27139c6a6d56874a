package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcurementDetail is one-to-one with a service and replaced wholesale
// on every import that touches the service.
type ProcurementDetail struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	ServiceId           int             `gorm:"index;not null" json:"service_id"`
	PrNumber            string          `gorm:"size:100" json:"pr_number"`
	PrDate              *time.Time      `json:"pr_date"`
	PrAmount            decimal.Decimal `gorm:"type:decimal(20,6)" json:"pr_amount"`
	PoNumber            string          `gorm:"size:100" json:"po_number"`
	PoDate              *time.Time      `json:"po_date"`
	PoValue             decimal.Decimal `gorm:"type:decimal(20,6)" json:"po_value"`
	Currency            string          `gorm:"size:10" json:"currency"`
	CommonCurrencyValue decimal.Decimal `gorm:"type:decimal(20,6)" json:"common_currency_value"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ReplaceProcurementDetail deletes any existing detail row for the service
// and creates the new one. Never merged field-by-field.
func ReplaceProcurementDetail(tx *gorm.DB, serviceId int, detail *ProcurementDetail) error {
	if err := tx.Where("service_id = ?", serviceId).Delete(&ProcurementDetail{}).Error; err != nil {
		return err
	}
	if detail == nil {
		return nil
	}
	detail.ID = 0
	detail.ServiceId = serviceId
	return tx.Create(detail).Error
}
