package models

import (
	"github.com/ditfinops/opex_backend/config"
)

func MigrateTable() error {
	db := config.GetDB()

	return db.AutoMigrate(
		&User{},
		&Tower{},
		&Vendor{},
		&BudgetHead{},
		&FiscalYear{},
		&POEntity{},
		&ServiceType{},
		&AllocationBasisName{},
		&Entity{},
		&Service{},
		&ProcurementDetail{},
		&AllocationBasis{},
		&BudgetMonth{},
		&MonthlyEntityActual{},
		&ServiceEntityAllocation{},
		&ImportJob{},
		&AuditLog{},
		&Outbox{},
	)
}
