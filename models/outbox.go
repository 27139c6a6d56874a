package models

import (
	"context"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/utils"
	"gorm.io/gorm"
)

// Outbox rows are written in the same transaction as the work they
// describe, then published by the background dispatcher after commit.
type Outbox struct {
	ID        int          `gorm:"primary_key" json:"id"`
	Topic     string       `gorm:"size:100;not null" json:"topic"`
	Payload   string       `gorm:"type:text;not null" json:"payload"`
	Status    OutboxStatus `gorm:"size:10;not null;default:'PENDING';index" json:"status"`
	Attempts  int          `gorm:"not null;default:0" json:"attempts"`
	LastError string       `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	SentAt    *time.Time   `json:"sent_at"`
}

func EnqueueOutbox(tx *gorm.DB, topic string, payload interface{}) error {
	data, err := utils.MarshalToJSON(payload)
	if err != nil {
		return err
	}
	record := Outbox{
		Topic:   topic,
		Payload: data,
		Status:  OutboxStatusPending,
	}
	return tx.Create(&record).Error
}

func FetchPendingOutbox(ctx context.Context, limit int) ([]*Outbox, error) {
	if limit <= 0 {
		limit = 20
	}

	db := config.GetDB()
	var results []*Outbox
	err := db.WithContext(ctx).
		Where("status = ?", OutboxStatusPending).
		Order("id").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func MarkOutboxSent(ctx context.Context, id int) error {
	db := config.GetDB()
	now := time.Now()
	return db.WithContext(ctx).Model(&Outbox{}).Where("id = ?", id).Updates(map[string]interface{}{
		"Status": OutboxStatusSent,
		"SentAt": &now,
	}).Error
}

func MarkOutboxFailed(ctx context.Context, id int, lastError string, maxAttempts int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Outbox
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		record.Attempts++
		status := OutboxStatusPending
		if record.Attempts >= maxAttempts {
			status = OutboxStatusFailed
		}
		return tx.Model(&record).Updates(map[string]interface{}{
			"Status":    status,
			"Attempts":  record.Attempts,
			"LastError": lastError,
		}).Error
	})
}
