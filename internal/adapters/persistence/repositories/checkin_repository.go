package repositories

import (
	"context"

	"checkin-bot/internal/adapters/persistence/models"
	"checkin-bot/internal/core/domain"

	"gorm.io/gorm"
)

// checkInRepository implements CheckInRepository interface
type checkInRepository struct {
	db *gorm.DB
}

// NewCheckInRepository creates a new check-in record repository
func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Append inserts one record; records are never updated
func (r *checkInRepository) Append(ctx context.Context, record domain.CheckInRecord) error {
	row := &models.CheckInRecord{
		ID:          record.ID,
		SubmitterID: record.SubmitterID,
		DisplayName: record.DisplayName,
		Handle:      record.Handle,
		Timestamp:   record.Timestamp.Format(domain.TimestampLayout),
		PlaceName:   record.PlaceName,
		Region:      record.Region,
		Latitude:    record.Latitude,
		Longitude:   record.Longitude,
		MapLink:     record.MapLink,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// List lists records newest first with pagination
func (r *checkInRepository) List(ctx context.Context, offset, limit int) ([]*models.CheckInRecord, int64, error) {
	var records []*models.CheckInRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.CheckInRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
