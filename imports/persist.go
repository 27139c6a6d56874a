package imports

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/models"
	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	batchSize    = 50
	batchTimeout = 15 * time.Second
)

// MasterMaps holds the lowercased name -> id lookups built once per
// import run. Entity names keep their case as encountered in headers.
type MasterMaps struct {
	Towers          map[string]int
	Vendors         map[string]int
	BudgetHeads     map[string]int
	FiscalYears     map[string]int
	POEntities      map[string]int
	ServiceTypes    map[string]int
	AllocationBases map[string]int
	Entities        map[string]int
}

// LoadMasterMaps pre-fetches every master category so row processing
// never does per-row lookups.
func LoadMasterMaps(ctx context.Context) (*MasterMaps, error) {
	maps := &MasterMaps{}
	var err error

	if maps.Towers, err = models.NameIdMap[models.Tower](ctx); err != nil {
		return nil, err
	}
	if maps.Vendors, err = models.NameIdMap[models.Vendor](ctx); err != nil {
		return nil, err
	}
	if maps.BudgetHeads, err = models.NameIdMap[models.BudgetHead](ctx); err != nil {
		return nil, err
	}
	if maps.FiscalYears, err = models.NameIdMap[models.FiscalYear](ctx); err != nil {
		return nil, err
	}
	if maps.POEntities, err = models.NameIdMap[models.POEntity](ctx); err != nil {
		return nil, err
	}
	if maps.ServiceTypes, err = models.NameIdMap[models.ServiceType](ctx); err != nil {
		return nil, err
	}
	if maps.AllocationBases, err = models.NameIdMap[models.AllocationBasisName](ctx); err != nil {
		return nil, err
	}
	if maps.Entities, err = models.EntityIdMap(ctx); err != nil {
		return nil, err
	}
	return maps, nil
}

var fiscalYearToken = regexp.MustCompile(`(?i)FY(\d{2})`)

// FiscalYearFromUid derives the fiscal year name from the FY token
// embedded in the UID, e.g. "SVC-FY25-0042" -> "FY25".
func FiscalYearFromUid(uid string) string {
	m := fiscalYearToken.FindStringSubmatch(uid)
	if m == nil {
		return ""
	}
	return "FY" + m[1]
}

type persister struct {
	policy        Policy
	createMissing bool
	maps          *MasterMaps
	logger        *logrus.Logger
}

type namedMaster interface {
	GetID() int
}

// resolve turns a master name into a foreign key. Unknown names yield a
// null FK unless create-missing is on, in which case the record is
// created in the current transaction and cached for the rest of the run.
func (p *persister) resolve(tx *gorm.DB, category map[string]int, name string, build func(string) namedMaster) (*int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := category[key]; ok {
		return &id, nil
	}
	if !p.createMissing {
		return nil, nil
	}

	record := build(name)
	err := tx.Create(record).Error
	if err != nil {
		// another import may have created it concurrently
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			if err := tx.Where("name = ?", name).First(record).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	id := record.GetID()
	category[key] = id
	return &id, nil
}

func (p *persister) resolveTower(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.Towers, name, func(n string) namedMaster {
		return &models.Tower{MasterBase: models.MasterBase{Name: n}}
	})
}

func (p *persister) resolveVendor(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.Vendors, name, func(n string) namedMaster {
		return &models.Vendor{MasterBase: models.MasterBase{Name: n}}
	})
}

func (p *persister) resolveBudgetHead(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.BudgetHeads, name, func(n string) namedMaster {
		return &models.BudgetHead{MasterBase: models.MasterBase{Name: n}}
	})
}

func (p *persister) resolveFiscalYear(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.FiscalYears, name, func(n string) namedMaster {
		return &models.FiscalYear{MasterBase: models.MasterBase{Name: n}}
	})
}

func (p *persister) resolvePOEntity(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.POEntities, name, func(n string) namedMaster {
		return &models.POEntity{MasterBase: models.MasterBase{Name: n}}
	})
}

func (p *persister) resolveServiceType(tx *gorm.DB, name string) (*int, error) {
	return p.resolve(tx, p.maps.ServiceTypes, name, func(n string) namedMaster {
		return &models.ServiceType{MasterBase: models.MasterBase{Name: n}}
	})
}

// ensureEntities get-or-creates every entity named by the header
// classification so entity ids are resolvable during row processing.
func (p *persister) ensureEntities(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if _, ok := p.maps.Entities[name]; ok {
				continue
			}
			entity, err := models.GetOrCreateEntity(tx, name)
			if err != nil {
				return err
			}
			p.maps.Entities[name] = entity.ID
		}
		return nil
	})
}

// persistAll drives the batch loop: fixed-size batches, one transaction
// each, failure isolation at batch granularity. Rows of a failed batch
// are moved to the rejected list; prior batches stay committed.
func (p *persister) persistAll(ctx context.Context, records []*Record, report *Report) error {
	db := config.GetDB()

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		batchCtx, cancel := context.WithTimeout(ctx, batchTimeout)
		err := db.WithContext(batchCtx).Transaction(func(tx *gorm.DB) error {
			for _, record := range batch {
				rowErr, err := p.persistRecord(tx, record)
				if err != nil {
					return err
				}
				if rowErr != "" {
					report.RejectAccepted(record.RowNumber, rowErr)
				}
			}
			return nil
		})
		cancel()

		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"policy":    p.policy.Name,
				"batchFrom": batch[0].RowNumber,
				"batchTo":   batch[len(batch)-1].RowNumber,
			}).WithError(err).Error("import batch failed; rolling back batch only")
			for _, record := range batch {
				report.RejectAccepted(record.RowNumber, fmt.Sprintf("batch transaction failed: %v", err))
			}
		}
	}
	return nil
}

// persistRecord writes one normalized record. A non-empty rowErr rejects
// only this row; a returned error aborts the whole batch.
func (p *persister) persistRecord(tx *gorm.DB, record *Record) (rowErr string, err error) {

	service, existing, err := p.findService(tx, record)
	if err != nil {
		return "", err
	}
	if service == nil {
		return fmt.Sprintf("Service not found for identifier %q", record.Uid), nil
	}

	var before *models.Service
	if existing {
		clone := *service
		before = &clone
	}

	if err := p.applyServiceFields(tx, service, record, existing); err != nil {
		return "", err
	}

	if err := p.persistChildren(tx, service.ID, record); err != nil {
		return "", err
	}

	description := fmt.Sprintf("Imported via %s (row %d)", p.policy.Name, record.RowNumber)
	if err := models.SaveImportAudit(tx, "services", service.ID, beforeValue(before), record.auditValue(), description); err != nil {
		return "", err
	}

	return "", nil
}

func beforeValue(before *models.Service) interface{} {
	if before == nil {
		return nil
	}
	return before
}

// auditValue is the serialized incoming row diff stored per audit entry.
func (r *Record) auditValue() interface{} {
	fields := make(map[string]interface{}, len(r.Strings)+4)
	fields["uid"] = r.Uid
	fields["row"] = r.RowNumber
	for role, v := range r.Strings {
		fields[string(role)] = v
	}
	if len(r.MonthlyAmounts) > 0 || len(r.MonthAmounts) > 0 {
		fields["monthly_sum"] = r.MonthlySum.String()
	}
	if len(r.EntityCounts) > 0 {
		fields["count_sum"] = r.CountSum.String()
	}
	return fields
}

// findService locates the target service. UID match first; the BOA
// policy also accepts a match by description or vendor name. A nil
// service with nil error means no match and no right to create one.
func (p *persister) findService(tx *gorm.DB, record *Record) (*models.Service, bool, error) {
	var service models.Service
	err := tx.Where("uid = ?", record.Uid).First(&service).Error
	if err == nil {
		return &service, true, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	if p.policy.MatchServiceByNameOrVendor {
		err = tx.Where("description = ?", record.Uid).First(&service).Error
		if err == nil {
			return &service, true, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, false, err
		}
		if vendorId, ok := p.maps.Vendors[strings.ToLower(record.Uid)]; ok {
			err = tx.Where("vendor_id = ?", vendorId).First(&service).Error
			if err == nil {
				return &service, true, nil
			}
			if err != gorm.ErrRecordNotFound {
				return nil, false, err
			}
		}
	}

	if !p.policy.UpsertServices {
		return nil, false, nil
	}

	service = models.Service{Uid: record.Uid}
	if err := tx.Create(&service).Error; err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			// concurrent import created the same uid; last commit wins
			if err := tx.Where("uid = ?", record.Uid).First(&service).Error; err != nil {
				return nil, false, err
			}
			return &service, true, nil
		}
		return nil, false, err
	}
	return &service, false, nil
}

// baseServiceUpdates builds the non-FK part of the service update map:
// everything on create, only fields present in the row on update.
func baseServiceUpdates(record *Record, existing bool) map[string]interface{} {
	updates := map[string]interface{}{}

	setString := func(column string, role FieldRole) {
		if v, ok := record.Strings[role]; ok {
			updates[column] = v
		} else if !existing {
			updates[column] = ""
		}
	}
	setString("Description", RoleDescription)
	setString("Priority", RolePriority)
	setString("ContractId", RoleContractId)
	setString("Remarks", RoleRemarks)

	for _, role := range dateRoles {
		var column string
		switch role {
		case RoleStartDate:
			column = "StartDate"
		case RoleEndDate:
			column = "EndDate"
		case RoleRenewalDate:
			column = "RenewalDate"
		default:
			continue
		}
		if date, ok := record.Dates[role]; ok && date != nil {
			updates[column] = date
		} else if !existing {
			updates[column] = nil
		}
	}

	// the reconciled annual total (declared when within tolerance,
	// computed otherwise)
	if len(record.MonthAmounts) > 0 || len(record.MonthlyAmounts) > 0 || record.DeclaredTotal != nil {
		updates["AnnualBudget"] = record.ReconciledTotal
	}

	return updates
}

// applyServiceFields merges the base update map with the resolved master
// foreign keys and writes the result.
func (p *persister) applyServiceFields(tx *gorm.DB, service *models.Service, record *Record, existing bool) error {
	updates := baseServiceUpdates(record, existing)

	setMaster := func(column string, role FieldRole, resolveFn func(*gorm.DB, string) (*int, error)) error {
		name, ok := record.Strings[role]
		if !ok {
			return nil
		}
		id, err := resolveFn(tx, name)
		if err != nil {
			return err
		}
		// unresolved names become a null FK, not a row failure
		updates[column] = id
		return nil
	}
	if err := setMaster("VendorId", RoleVendor, p.resolveVendor); err != nil {
		return err
	}
	if err := setMaster("TowerId", RoleTower, p.resolveTower); err != nil {
		return err
	}
	if err := setMaster("BudgetHeadId", RoleBudgetHead, p.resolveBudgetHead); err != nil {
		return err
	}
	if err := setMaster("ServiceTypeId", RoleServiceType, p.resolveServiceType); err != nil {
		return err
	}
	if err := setMaster("POEntityId", RolePOEntity, p.resolvePOEntity); err != nil {
		return err
	}

	// fiscal year: explicit column first, FY token in the UID otherwise
	fyName := record.Strings[RoleFiscalYear]
	if fyName == "" {
		fyName = FiscalYearFromUid(record.Uid)
	}
	if fyName != "" {
		id, err := p.resolveFiscalYear(tx, fyName)
		if err != nil {
			return err
		}
		updates["FiscalYearId"] = id
	}

	if len(updates) == 0 {
		return nil
	}
	return tx.Model(service).Updates(updates).Error
}

func (p *persister) persistChildren(tx *gorm.DB, serviceId int, record *Record) error {

	if p.hasProcurementData(record) {
		detail := &models.ProcurementDetail{
			PrNumber:            record.Strings[RolePrNumber],
			PrDate:              record.Dates[RolePrDate],
			PrAmount:            record.Amounts[RolePrAmount],
			PoNumber:            record.Strings[RolePoNumber],
			PoDate:              record.Dates[RolePoDate],
			PoValue:             record.Amounts[RolePoValue],
			Currency:            record.Strings[RoleCurrency],
			CommonCurrencyValue: record.Amounts[RoleCommonCurrencyValue],
		}
		if err := models.ReplaceProcurementDetail(tx, serviceId, detail); err != nil {
			return err
		}
	}

	// a nil basis text keeps whatever text a prior import stored
	var basisText *string
	if v, ok := record.Strings[RoleAllocationBasis]; ok {
		basisText = &v
	}
	if basisText != nil || len(record.EntityCounts) > 0 {
		if err := models.UpsertAllocationBasis(tx, serviceId, basisText, record.ReconciledCount); err != nil {
			return err
		}
	}

	if p.policy.BudgetMonthsFromLabels && len(record.MonthAmounts) > 0 {
		rows := make([]*models.BudgetMonth, 0, len(record.MonthAmounts))
		for _, ma := range record.MonthAmounts {
			rows = append(rows, &models.BudgetMonth{MonthLabel: ma.Label, Amount: ma.Amount})
		}
		if err := models.ReplaceBudgetMonths(tx, serviceId, rows); err != nil {
			return err
		}
	}

	if len(record.MonthlyAmounts) > 0 {
		rows := make([]*models.MonthlyEntityActual, 0, len(record.MonthlyAmounts))
		for _, ma := range record.MonthlyAmounts {
			entityId, ok := p.maps.Entities[ma.Entity]
			if !ok {
				return fmt.Errorf("entity %q not resolved before row processing", ma.Entity)
			}
			rows = append(rows, &models.MonthlyEntityActual{
				EntityId: entityId,
				Month:    ma.Month,
				Amount:   ma.Amount,
			})
		}
		if err := models.ReplaceMonthlyEntityActuals(tx, serviceId, rows); err != nil {
			return err
		}
	}

	if len(record.EntityCounts) > 0 {
		rows := make([]*models.ServiceEntityAllocation, 0, len(record.EntityCounts))
		for _, ec := range record.EntityCounts {
			entityId, ok := p.maps.Entities[ec.Entity]
			if !ok {
				return fmt.Errorf("entity %q not resolved before row processing", ec.Entity)
			}
			rows = append(rows, &models.ServiceEntityAllocation{
				EntityId: entityId,
				Count:    ec.Count,
			})
		}
		if err := models.ReplaceServiceEntityAllocations(tx, serviceId, rows); err != nil {
			return err
		}
	}

	return nil
}

func (p *persister) hasProcurementData(record *Record) bool {
	for _, role := range []FieldRole{RolePrNumber, RolePoNumber, RoleCurrency} {
		if _, ok := record.Strings[role]; ok {
			return true
		}
	}
	for _, role := range []FieldRole{RolePrAmount, RolePoValue, RoleCommonCurrencyValue} {
		if v, ok := record.Amounts[role]; ok && !v.IsZero() {
			return true
		}
	}
	return false
}
