package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/utils"
	"gorm.io/gorm"
)

// MasterBase is embedded by every name-keyed master table. Masters are
// referenced by foreign key from services and resolved by name during
// imports, so the name carries a unique index.
type MasterBase struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:191;not null" json:"name" binding:"required"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *MasterBase) GetID() int {
	return m.ID
}

type Tower struct {
	MasterBase
}

type Vendor struct {
	MasterBase
}

type BudgetHead struct {
	MasterBase
}

// FiscalYear names follow the "FY25" convention; imports derive them
// from the FY token embedded in service UIDs.
type FiscalYear struct {
	MasterBase
}

type POEntity struct {
	MasterBase
}

type ServiceType struct {
	MasterBase
}

type AllocationBasisName struct {
	MasterBase
}

type NewMaster struct {
	Name string `json:"name" binding:"required"`
}

func masterCacheKey[T any]() string {
	var model T
	db := config.GetDB()
	if db == nil {
		return "Masters:unknown"
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model); err != nil {
		return "Masters:unknown"
	}
	return "Masters:" + stmt.Schema.Table
}

func createMaster[T any](ctx context.Context, record *T, name string) (*T, error) {

	if len(strings.TrimSpace(name)) == 0 {
		return nil, errors.New("name is required")
	}
	if err := utils.ValidateUnique[T](ctx, "name", name, 0); err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	utils.InvalidateCache(masterCacheKey[T]())
	return record, nil
}

func updateMaster[T any](ctx context.Context, id int, name string) (*T, error) {

	if len(strings.TrimSpace(name)) == 0 {
		return nil, errors.New("name is required")
	}
	if err := utils.ValidateUnique[T](ctx, "name", name, id); err != nil {
		return nil, err
	}

	record, err := utils.FetchModel[T](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(record).Updates(map[string]interface{}{
		"Name": name,
	}).Error
	if err != nil {
		return nil, err
	}

	utils.InvalidateCache(masterCacheKey[T]())
	return record, nil
}

func deleteMaster[T any](ctx context.Context, id int) (*T, error) {

	record, err := utils.FetchModel[T](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(record).Error; err != nil {
		return nil, err
	}

	utils.InvalidateCache(masterCacheKey[T]())
	return record, nil
}

// listMasters serves from redis when warm, db otherwise.
func listMasters[T any](ctx context.Context) ([]*T, error) {

	cacheKey := masterCacheKey[T]()
	var cached []*T
	if found, err := utils.GetCachedObject(cacheKey, &cached); err == nil && found {
		return cached, nil
	}

	db := config.GetDB()
	var results []*T
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}

	// caching is best-effort
	utils.CacheObject(cacheKey, results, 10*time.Minute)
	return results, nil
}

type nameIdRow struct {
	ID   int
	Name string
}

// NameIdMap builds the lowercased name -> id lookup used by the import
// persist phase. Built once per run, never per row.
func NameIdMap[T any](ctx context.Context) (map[string]int, error) {
	var model T
	db := config.GetDB()

	var rows []nameIdRow
	err := db.WithContext(ctx).Model(&model).Select("id", "name").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[strings.ToLower(strings.TrimSpace(row.Name))] = row.ID
	}
	return result, nil
}

func CreateTower(ctx context.Context, input *NewMaster) (*Tower, error) {
	record := Tower{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateTower(ctx context.Context, id int, input *NewMaster) (*Tower, error) {
	return updateMaster[Tower](ctx, id, input.Name)
}

func DeleteTower(ctx context.Context, id int) (*Tower, error) {
	return deleteMaster[Tower](ctx, id)
}

func GetTowers(ctx context.Context) ([]*Tower, error) {
	return listMasters[Tower](ctx)
}

func CreateVendor(ctx context.Context, input *NewMaster) (*Vendor, error) {
	record := Vendor{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateVendor(ctx context.Context, id int, input *NewMaster) (*Vendor, error) {
	return updateMaster[Vendor](ctx, id, input.Name)
}

func DeleteVendor(ctx context.Context, id int) (*Vendor, error) {
	return deleteMaster[Vendor](ctx, id)
}

func GetVendors(ctx context.Context) ([]*Vendor, error) {
	return listMasters[Vendor](ctx)
}

func CreateBudgetHead(ctx context.Context, input *NewMaster) (*BudgetHead, error) {
	record := BudgetHead{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateBudgetHead(ctx context.Context, id int, input *NewMaster) (*BudgetHead, error) {
	return updateMaster[BudgetHead](ctx, id, input.Name)
}

func DeleteBudgetHead(ctx context.Context, id int) (*BudgetHead, error) {
	return deleteMaster[BudgetHead](ctx, id)
}

func GetBudgetHeads(ctx context.Context) ([]*BudgetHead, error) {
	return listMasters[BudgetHead](ctx)
}

func CreateFiscalYear(ctx context.Context, input *NewMaster) (*FiscalYear, error) {
	record := FiscalYear{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateFiscalYear(ctx context.Context, id int, input *NewMaster) (*FiscalYear, error) {
	return updateMaster[FiscalYear](ctx, id, input.Name)
}

func DeleteFiscalYear(ctx context.Context, id int) (*FiscalYear, error) {
	return deleteMaster[FiscalYear](ctx, id)
}

func GetFiscalYears(ctx context.Context) ([]*FiscalYear, error) {
	return listMasters[FiscalYear](ctx)
}

func CreatePOEntity(ctx context.Context, input *NewMaster) (*POEntity, error) {
	record := POEntity{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdatePOEntity(ctx context.Context, id int, input *NewMaster) (*POEntity, error) {
	return updateMaster[POEntity](ctx, id, input.Name)
}

func DeletePOEntity(ctx context.Context, id int) (*POEntity, error) {
	return deleteMaster[POEntity](ctx, id)
}

func GetPOEntities(ctx context.Context) ([]*POEntity, error) {
	return listMasters[POEntity](ctx)
}

func CreateServiceType(ctx context.Context, input *NewMaster) (*ServiceType, error) {
	record := ServiceType{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateServiceType(ctx context.Context, id int, input *NewMaster) (*ServiceType, error) {
	return updateMaster[ServiceType](ctx, id, input.Name)
}

func DeleteServiceType(ctx context.Context, id int) (*ServiceType, error) {
	return deleteMaster[ServiceType](ctx, id)
}

func GetServiceTypes(ctx context.Context) ([]*ServiceType, error) {
	return listMasters[ServiceType](ctx)
}

func CreateAllocationBasisName(ctx context.Context, input *NewMaster) (*AllocationBasisName, error) {
	record := AllocationBasisName{MasterBase: MasterBase{Name: input.Name, IsActive: utils.NewTrue()}}
	return createMaster(ctx, &record, input.Name)
}

func UpdateAllocationBasisName(ctx context.Context, id int, input *NewMaster) (*AllocationBasisName, error) {
	return updateMaster[AllocationBasisName](ctx, id, input.Name)
}

func DeleteAllocationBasisName(ctx context.Context, id int) (*AllocationBasisName, error) {
	return deleteMaster[AllocationBasisName](ctx, id)
}

func GetAllocationBasisNames(ctx context.Context) ([]*AllocationBasisName, error) {
	return listMasters[AllocationBasisName](ctx)
}
