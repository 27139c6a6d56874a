package models

import (
	"context"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is one budget line item: a contract/service tracked across
// fiscal years, keyed by its user-assigned UID.
type Service struct {
	ID            int        `gorm:"primary_key" json:"id"`
	Uid           string     `gorm:"uniqueIndex;size:100;not null" json:"uid" binding:"required"`
	Description   string     `gorm:"type:text" json:"description"`
	VendorId      *int       `gorm:"index" json:"vendor_id"`
	TowerId       *int       `gorm:"index" json:"tower_id"`
	BudgetHeadId  *int       `gorm:"index" json:"budget_head_id"`
	ServiceTypeId *int       `gorm:"index" json:"service_type_id"`
	FiscalYearId  *int       `gorm:"index" json:"fiscal_year_id"`
	POEntityId    *int       `gorm:"index" json:"po_entity_id"`
	Priority      string     `gorm:"size:50" json:"priority"`
	ContractId    string     `gorm:"size:100" json:"contract_id"`
	AnnualBudget  decimal.Decimal `gorm:"type:decimal(20,6)" json:"annual_budget"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	RenewalDate   *time.Time `json:"renewal_date"`
	Remarks       string     `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	ProcurementDetail *ProcurementDetail        `gorm:"foreignKey:ServiceId" json:"procurement_detail,omitempty"`
	AllocationBasis   *AllocationBasis          `gorm:"foreignKey:ServiceId" json:"allocation_basis,omitempty"`
	BudgetMonths      []*BudgetMonth            `gorm:"foreignKey:ServiceId" json:"budget_months,omitempty"`
	MonthlyActuals    []*MonthlyEntityActual    `gorm:"foreignKey:ServiceId" json:"monthly_actuals,omitempty"`
	Allocations       []*ServiceEntityAllocation `gorm:"foreignKey:ServiceId" json:"allocations,omitempty"`
}

type UpdateServiceInput struct {
	Description   *string `json:"description"`
	VendorId      *int    `json:"vendor_id"`
	TowerId       *int    `json:"tower_id"`
	BudgetHeadId  *int    `json:"budget_head_id"`
	ServiceTypeId *int    `json:"service_type_id"`
	FiscalYearId  *int    `json:"fiscal_year_id"`
	POEntityId    *int    `json:"po_entity_id"`
	Priority      *string `json:"priority"`
	ContractId    *string `json:"contract_id"`
	Remarks       *string `json:"remarks"`
}

type ServiceFilter struct {
	Uid          *string
	TowerId      *int
	VendorId     *int
	FiscalYearId *int
}

func GetService(ctx context.Context, id int) (*Service, error) {
	return utils.FetchModel[Service](ctx, id,
		"ProcurementDetail", "AllocationBasis", "BudgetMonths", "MonthlyActuals", "Allocations")
}

func GetServiceByUid(ctx context.Context, uid string) (*Service, error) {

	db := config.GetDB()
	var result Service
	err := db.WithContext(ctx).Where("uid = ?", uid).First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetServices(ctx context.Context, filter ServiceFilter) ([]*Service, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.Uid != nil && len(*filter.Uid) > 0 {
		dbCtx = dbCtx.Where("uid LIKE ?", "%"+*filter.Uid+"%")
	}
	if filter.TowerId != nil && *filter.TowerId > 0 {
		dbCtx = dbCtx.Where("tower_id = ?", *filter.TowerId)
	}
	if filter.VendorId != nil && *filter.VendorId > 0 {
		dbCtx = dbCtx.Where("vendor_id = ?", *filter.VendorId)
	}
	if filter.FiscalYearId != nil && *filter.FiscalYearId > 0 {
		dbCtx = dbCtx.Where("fiscal_year_id = ?", *filter.FiscalYearId)
	}

	var results []*Service
	err := dbCtx.Order("uid").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateService(ctx context.Context, id int, input *UpdateServiceInput) (*Service, error) {

	service, err := utils.FetchModel[Service](ctx, id)
	if err != nil {
		return nil, err
	}

	// only fields present in the input overwrite
	updates := map[string]interface{}{}
	if input.Description != nil {
		updates["Description"] = *input.Description
	}
	if input.VendorId != nil {
		if err := utils.ValidateResourceId[Vendor](ctx, *input.VendorId); err != nil {
			return nil, err
		}
		updates["VendorId"] = *input.VendorId
	}
	if input.TowerId != nil {
		if err := utils.ValidateResourceId[Tower](ctx, *input.TowerId); err != nil {
			return nil, err
		}
		updates["TowerId"] = *input.TowerId
	}
	if input.BudgetHeadId != nil {
		if err := utils.ValidateResourceId[BudgetHead](ctx, *input.BudgetHeadId); err != nil {
			return nil, err
		}
		updates["BudgetHeadId"] = *input.BudgetHeadId
	}
	if input.ServiceTypeId != nil {
		if err := utils.ValidateResourceId[ServiceType](ctx, *input.ServiceTypeId); err != nil {
			return nil, err
		}
		updates["ServiceTypeId"] = *input.ServiceTypeId
	}
	if input.FiscalYearId != nil {
		if err := utils.ValidateResourceId[FiscalYear](ctx, *input.FiscalYearId); err != nil {
			return nil, err
		}
		updates["FiscalYearId"] = *input.FiscalYearId
	}
	if input.POEntityId != nil {
		if err := utils.ValidateResourceId[POEntity](ctx, *input.POEntityId); err != nil {
			return nil, err
		}
		updates["POEntityId"] = *input.POEntityId
	}
	if input.Priority != nil {
		updates["Priority"] = *input.Priority
	}
	if input.ContractId != nil {
		updates["ContractId"] = *input.ContractId
	}
	if input.Remarks != nil {
		updates["Remarks"] = *input.Remarks
	}
	if len(updates) == 0 {
		return service, nil
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(service).Updates(updates).Error; err != nil {
			return err
		}
		return SaveAuditUpdate(tx, service.ID, service, "Service updated")
	})
	if err != nil {
		return nil, err
	}

	return service, nil
}

// DeleteService removes the service and all its child rows in one
// transaction.
func DeleteService(ctx context.Context, id int) (*Service, error) {

	service, err := utils.FetchModel[Service](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&ProcurementDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&AllocationBasis{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&BudgetMonth{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&MonthlyEntityActual{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&ServiceEntityAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(service).Error; err != nil {
			return err
		}
		return SaveAuditDelete(tx, service.ID, service, "Service deleted")
	})
	if err != nil {
		return nil, err
	}

	return service, nil
}
