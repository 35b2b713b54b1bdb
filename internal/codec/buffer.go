package codec

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"dynotest/internal/models"
)

// Sample is one timestamped measurement tuple produced by the rig.
type Sample struct {
	TimeMs     int64   `json:"time_ms" cbor:"1,keyasint"`
	SpeedKmh   float64 `json:"speed_kmh" cbor:"2,keyasint"`
	RollerRPM  float64 `json:"roller_rpm" cbor:"3,keyasint"`
	EngineRPM  float64 `json:"engine_rpm" cbor:"4,keyasint"`
	Torque     float64 `json:"torque" cbor:"5,keyasint"`
	HorsePower float64 `json:"horse_power" cbor:"6,keyasint"`
	TempC      float64 `json:"temp_c" cbor:"7,keyasint"`
	Odo        float64 `json:"odo" cbor:"8,keyasint"`
}

// Buffer is an ordered run of samples: the raw telemetry of one test,
// exchanged compressed over the wire and decompressed for export.
type Buffer struct {
	Samples []Sample `json:"samples" cbor:"1,keyasint"`
}

func (b *Buffer) Len() int { return len(b.Samples) }

// MotorConfig is the motor/rig description carried inside the info
// part. The service layer maps it onto a deduplicated Info row.
type MotorConfig struct {
	MotorType models.MotorType `json:"motor_type" cbor:"1,keyasint"`
	Name      string           `json:"name" cbor:"2,keyasint"`

	CC       int16 `json:"cc,omitempty" cbor:"3,keyasint,omitempty"`
	Cylinder int16 `json:"cylinder,omitempty" cbor:"4,keyasint,omitempty"`
	Stroke   int16 `json:"stroke,omitempty" cbor:"5,keyasint,omitempty"`

	RollerDiameter      float32 `json:"roller_diameter" cbor:"6,keyasint"`
	LoadRollerDiameter  float32 `json:"load_roller_diameter" cbor:"7,keyasint"`
	EncoderGearDiameter float32 `json:"encoder_gear_diameter" cbor:"8,keyasint"`
	LoadGearDiameter    float32 `json:"load_gear_diameter" cbor:"9,keyasint"`
	GearDistance        float32 `json:"gear_distance" cbor:"10,keyasint"`
	LoadWeight          float32 `json:"load_weight" cbor:"11,keyasint"`
	LoadForce           float32 `json:"load_force" cbor:"12,keyasint"`
	RollerCircumference float32 `json:"roller_circumference" cbor:"13,keyasint"`
}

// TestInfo is the info multipart part of an upload: the motor config,
// the checksum the agent computed over the data part, and the test
// window.
type TestInfo struct {
	Config      MotorConfig `json:"config" cbor:"1,keyasint"`
	ChecksumHex string      `json:"checksum_hex" cbor:"2,keyasint"`
	Start       time.Time   `json:"start" cbor:"3,keyasint"`
	Stop        time.Time   `json:"stop" cbor:"4,keyasint"`
}

var csvHeader = []string{
	"time_ms", "speed_kmh", "roller_rpm", "engine_rpm",
	"torque", "horse_power", "temp_c", "odo",
}

// ToCSV serializes a decompressed buffer as CSV with a header row.
func ToCSV(buf *Buffer) ([]byte, error) {
	var out bytes.Buffer
	writer := csv.NewWriter(&out)

	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, s := range buf.Samples {
		row := []string{
			strconv.FormatInt(s.TimeMs, 10),
			strconv.FormatFloat(s.SpeedKmh, 'f', 2, 64),
			strconv.FormatFloat(s.RollerRPM, 'f', 2, 64),
			strconv.FormatFloat(s.EngineRPM, 'f', 2, 64),
			strconv.FormatFloat(s.Torque, 'f', 4, 64),
			strconv.FormatFloat(s.HorsePower, 'f', 4, 64),
			strconv.FormatFloat(s.TempC, 'f', 2, 64),
			strconv.FormatFloat(s.Odo, 'f', 3, 64),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ToJSON serializes a decompressed buffer as indented JSON.
func ToJSON(buf *Buffer) ([]byte, error) {
	return json.MarshalIndent(buf, "", "  ")
}
