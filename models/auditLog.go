package models

import (
	"context"
	"errors"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/utils"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ActionType    string    `gorm:"size:10;not null" json:"action_type"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:100" json:"reference_type"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text" json:"description"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func createAuditLog(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) (err error) {

	var entry AuditLog

	b, _ := utils.MarshalToJSON(before)
	a, _ := utils.MarshalToJSON(after)

	ctx := tx.Statement.Context
	// get userId, userName from context
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, _ := utils.GetUserNameFromContext(ctx)
	if userName == "" {
		userName, _ = utils.GetUsernameFromContext(ctx)
	}

	entry.ActionType = actionType
	entry.Before = b
	entry.After = a
	entry.Description = description
	entry.ReferenceID = referenceId
	entry.ReferenceType = referenceType
	entry.UserId = userId
	entry.UserName = userName

	err = tx.Create(&entry).Error
	return err
}

func SaveAuditCreate(tx *gorm.DB, id int, obj interface{}, description string) error {
	return createAuditLog(tx, "CREATE", id, tx.Statement.Table, nil, obj, description)
}

func SaveAuditUpdate(tx *gorm.DB, id int, currentValue interface{}, description string) error {

	var newValue = tx.Statement.Dest

	return createAuditLog(tx, "UPDATE", id, tx.Statement.Table, currentValue, newValue, description)
}

func SaveAuditDelete(tx *gorm.DB, id int, obj interface{}, description string) error {
	return createAuditLog(tx, "DELETE", id, tx.Statement.Table, obj, nil, description)
}

// SaveImportAudit records one entry per persisted import row: actor,
// action, and the serialized incoming row diff.
func SaveImportAudit(tx *gorm.DB, referenceType string, referenceId int, before interface{}, after interface{}, description string) error {
	actionType := "CREATE"
	if before != nil {
		actionType = "UPDATE"
	}
	return createAuditLog(tx, actionType, referenceId, referenceType, before, after, description)
}

func GetAuditLogs(ctx context.Context, referenceType *string, referenceId *int, userId *int) ([]*AuditLog, error) {

	db := config.GetDB()
	var results []*AuditLog

	dbCtx := db.WithContext(ctx)
	if referenceType != nil && len(*referenceType) > 0 {
		dbCtx = dbCtx.Where("reference_type = ?", referenceType)
	}
	if referenceId != nil && *referenceId > 0 {
		dbCtx = dbCtx.Where("reference_id = ?", referenceId)
	}
	if userId != nil && *userId > 0 {
		dbCtx = dbCtx.Where("user_id = ?", userId)
	}
	err := dbCtx.Order("created_at DESC").Limit(200).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
