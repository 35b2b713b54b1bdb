package models

import (
	"time"
)

// History is an append-only record of one usage session of the rig.
type History struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	UserID      int64         `gorm:"index;not null" json:"user_id"`
	UserUUID    string        `gorm:"type:uuid;not null" json:"user_uuid"`
	DynoID      *int64        `json:"dyno_id,omitempty"`
	Duration    time.Duration `gorm:"not null" json:"duration"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
