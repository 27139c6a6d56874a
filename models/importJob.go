package models

import (
	"context"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"gorm.io/gorm"
)

// ImportJob is the append-only audit of import runs. One record per
// completed (non-dry-run) import, written regardless of row errors.
type ImportJob struct {
	ID            int          `gorm:"primary_key" json:"id"`
	Filename      string       `gorm:"size:255;not null" json:"filename"`
	ImportType    ImportType   `gorm:"size:30;not null" json:"import_type"`
	Status        ImportStatus `gorm:"size:30;not null" json:"status"`
	TotalRows     int          `gorm:"not null" json:"total_rows"`
	AcceptedRows  int          `gorm:"not null" json:"accepted_rows"`
	RejectedRows  int          `gorm:"not null" json:"rejected_rows"`
	UserId        int          `gorm:"index;not null" json:"user_id"`
	ArchiveUrl    string       `gorm:"size:500" json:"archive_url"`
	CorrelationId string       `gorm:"size:40" json:"correlation_id"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func CreateImportJob(tx *gorm.DB, job *ImportJob) error {
	return tx.Create(job).Error
}

// GetImportJobs returns the latest runs, newest first. Admins see all
// runs; other roles only their own.
func GetImportJobs(ctx context.Context, userId int, role UserRole, limit int) ([]*ImportJob, error) {

	if limit <= 0 || limit > 50 {
		limit = 50
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if role != UserRoleAdmin {
		dbCtx = dbCtx.Where("user_id = ?", userId)
	}

	var results []*ImportJob
	err := dbCtx.Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetImportJob(ctx context.Context, id int) (*ImportJob, error) {

	db := config.GetDB()
	var result ImportJob
	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
