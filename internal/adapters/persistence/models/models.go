package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Directory (source of truth for roles)
// ============================================================

// DirectoryEntry represents directory_entries table.
// Columns are kept as free text: the cache validates each row on reload.
type DirectoryEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PrincipalID string    `gorm:"uniqueIndex;size:32" json:"principal_id"`
	Role        string    `gorm:"size:20" json:"role"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Handle      string    `gorm:"size:64" json:"handle"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DirectoryEntry) TableName() string {
	return "directory_entries"
}

// ============================================================
// Check-in records (append-only)
// ============================================================

// CheckInRecord represents checkin_records table
type CheckInRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SubmitterID int64     `gorm:"index;not null" json:"submitter_id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Handle      string    `gorm:"size:64" json:"handle"`
	Timestamp   string    `gorm:"size:19;not null" json:"timestamp"`
	PlaceName   string    `gorm:"size:255;not null" json:"place_name"`
	Region      string    `gorm:"size:255;not null" json:"region"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	MapLink     string    `gorm:"size:255" json:"map_link"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (CheckInRecord) TableName() string {
	return "checkin_records"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates the service tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&DirectoryEntry{},
		&CheckInRecord{},
	)
}
