package models

import (
	"time"
)

type MotorType int16

const (
	MotorElectric MotorType = iota
	MotorEngine
)

func (m MotorType) String() string {
	if m == MotorEngine {
		return "engine"
	}
	return "electric"
}

// Info is the motor configuration metadata attached to a recording:
// what was mounted on the rig and the rig geometry. Rows are
// deduplicated on upload by content equality and never mutated after.
type Info struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	MotorType MotorType `gorm:"not null" json:"motor_type"`
	Name      *string   `json:"name,omitempty"`

	// engine-only fields
	CC       *int16 `json:"cc,omitempty"`
	Cylinder *int16 `json:"cylinder,omitempty"`
	Stroke   *int16 `json:"stroke,omitempty"`

	RollerDiameter      *float32 `json:"roller_diameter,omitempty"`
	LoadRollerDiameter  *float32 `json:"load_roller_diameter,omitempty"`
	EncoderGearDiameter *float32 `json:"encoder_gear_diameter,omitempty"`
	LoadGearDiameter    *float32 `json:"load_gear_diameter,omitempty"`
	GearDistance        *float32 `json:"gear_distance,omitempty"`
	LoadWeight          *float32 `json:"load_weight,omitempty"`
	LoadForce           *float32 `json:"load_force,omitempty"`
	RollerCircumference *float32 `json:"roller_circumference,omitempty"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
