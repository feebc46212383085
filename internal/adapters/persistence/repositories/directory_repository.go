package repositories

import (
	"context"
	"strings"

	"checkin-bot/internal/adapters/persistence/models"
	"checkin-bot/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// directoryRepository implements DirectoryRepository interface
type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

// FetchAll reads every directory row as stored, without validation
func (r *directoryRepository) FetchAll(ctx context.Context) ([]domain.DirectoryRow, error) {
	var entries []*models.DirectoryEntry
	if err := r.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}

	rows := make([]domain.DirectoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.DirectoryRow{
			ID:          e.PrincipalID,
			Role:        e.Role,
			DisplayName: e.DisplayName,
			Handle:      e.Handle,
		})
	}
	return rows, nil
}

// Upsert inserts or updates the row keyed by principal id
func (r *directoryRepository) Upsert(ctx context.Context, row domain.DirectoryRow) error {
	entry := &models.DirectoryEntry{
		PrincipalID: strings.TrimSpace(row.ID),
		Role:        row.Role,
		DisplayName: row.DisplayName,
		Handle:      row.Handle,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "principal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "display_name", "handle", "updated_at"}),
	}).Create(entry).Error
}

// Delete removes the row of a principal
func (r *directoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("principal_id = ?", strings.TrimSpace(id)).
		Delete(&models.DirectoryEntry{}).Error
}

// Count returns the number of stored rows, valid or not
func (r *directoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DirectoryEntry{}).Count(&count).Error
	return count, err
}
