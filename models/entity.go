package models

import (
	"context"
	"errors"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Entity is a cost-allocation unit (business division). Entities are
// immutable once created: name is the only identifying attribute and
// there is no update path.
type Entity struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:191;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewEntity struct {
	Name string `json:"name" binding:"required"`
}

func CreateEntity(ctx context.Context, input *NewEntity) (*Entity, error) {

	if err := utils.ValidateUnique[Entity](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	entity := Entity{Name: input.Name}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func GetEntities(ctx context.Context) ([]*Entity, error) {

	db := config.GetDB()
	var results []*Entity
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetOrCreateEntity resolves an entity by exact name, creating it on first
// sight. A concurrent create racing on the unique index surfaces as mysql
// error 1062; the loser re-reads the winner's row.
func GetOrCreateEntity(tx *gorm.DB, name string) (*Entity, error) {
	if name == "" {
		return nil, errors.New("entity name is required")
	}

	var entity Entity
	err := tx.Where("name = ?", name).First(&entity).Error
	if err == nil {
		return &entity, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	entity = Entity{Name: name}
	err = tx.Create(&entity).Error
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			if err := tx.Where("name = ?", name).First(&entity).Error; err != nil {
				return nil, err
			}
			return &entity, nil
		}
		return nil, err
	}
	return &entity, nil
}

// EntityIdMap builds the exact-name -> id lookup for the import persist
// phase. Entity names are case-sensitive as encountered in headers.
func EntityIdMap(ctx context.Context) (map[string]int, error) {
	db := config.GetDB()

	var rows []nameIdRow
	err := db.WithContext(ctx).Model(&Entity{}).Select("id", "name").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Name] = row.ID
	}
	return result, nil
}
