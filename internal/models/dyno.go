package models

import (
	"time"
)

// Dyno is one persisted dynamometer test recording. The compressed
// telemetry payload lives on disk at DataLocation; DataChecksum is the
// digest of exactly those bytes, validated before the row was written.
type Dyno struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"index;not null" json:"user_id"`
	InfoID       *int64    `json:"info_id,omitempty"`
	UUID         string    `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	DataLocation string    `gorm:"not null" json:"data_url"`
	DataChecksum string    `gorm:"not null" json:"data_checksum"`
	Verified     bool      `gorm:"default:false" json:"verified"`
	Start        time.Time `gorm:"not null" json:"start"`
	Stop         time.Time `gorm:"not null" json:"stop"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
