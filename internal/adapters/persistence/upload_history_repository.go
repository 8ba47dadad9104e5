package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/application/operations"
)

// GormUploadHistoryRepository implements upload-history reads using GORM
type GormUploadHistoryRepository struct {
	db *gorm.DB
}

// NewGormUploadHistoryRepository creates a new GORM upload-history repository
func NewGormUploadHistoryRepository(db *gorm.DB) *GormUploadHistoryRepository {
	return &GormUploadHistoryRepository{db: db}
}

// FindRecent retrieves the most recent uploads, newest first
func (r *GormUploadHistoryRepository) FindRecent(ctx context.Context, limit int) ([]operations.UploadRecord, error) {
	var models []UploadHistoryModel
	result := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("upload_history/select", result.Error)
	}

	records := make([]operations.UploadRecord, len(models))
	for i, m := range models {
		records[i] = operations.UploadRecord{
			ID:         m.ID,
			Source:     m.Source,
			Filename:   m.Filename,
			RowCount:   m.RowCount,
			UploadedAt: m.UploadedAt,
		}
	}
	return records, nil
}

// Record appends one ingestion event
func (r *GormUploadHistoryRepository) Record(ctx context.Context, record operations.UploadRecord) error {
	model := UploadHistoryModel{
		Source:     record.Source,
		Filename:   record.Filename,
		RowCount:   record.RowCount,
		UploadedAt: record.UploadedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return wrapErr("upload_history/insert", err)
	}
	return nil
}
