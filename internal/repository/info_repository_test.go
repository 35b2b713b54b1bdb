package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynotest/internal/models"
)

func fullInfo() *models.Info {
	name := "GL-Pro 160"
	cc, cylinder, stroke := int16(160), int16(1), int16(4)
	roller := float32(14.22)
	return &models.Info{
		MotorType:           models.MotorEngine,
		Name:                &name,
		CC:                  &cc,
		Cylinder:            &cylinder,
		Stroke:              &stroke,
		RollerDiameter:      &roller,
		LoadRollerDiameter:  &roller,
		EncoderGearDiameter: &roller,
		LoadGearDiameter:    &roller,
		GearDistance:        &roller,
		LoadWeight:          &roller,
		LoadForce:           &roller,
		RollerCircumference: &roller,
	}
}

func TestInfoMatchClauseFullRow(t *testing.T) {
	clause, args := infoMatchClause(fullInfo())

	// motor_type plus twelve nullable columns, all present.
	assert.Equal(t, 13, strings.Count(clause, "?"))
	assert.Len(t, args, 13)
	assert.NotContains(t, clause, "IS NULL")
	assert.Contains(t, clause, "name = ?")
	assert.Contains(t, clause, "roller_circumference = ?")
}

func TestInfoMatchClauseAbsentFieldsRequireNull(t *testing.T) {
	info := fullInfo()
	info.Name = nil
	info.CC = nil
	info.Cylinder = nil
	info.Stroke = nil

	clause, args := infoMatchClause(info)

	assert.Contains(t, clause, "name IS NULL")
	assert.Contains(t, clause, "cc IS NULL")
	assert.Contains(t, clause, "cylinder IS NULL")
	assert.Contains(t, clause, "stroke IS NULL")
	assert.NotContains(t, clause, "name = ?")
	assert.Len(t, args, 9)
}

func TestInfoMatchClauseDistinguishesNamedConfigs(t *testing.T) {
	named := fullInfo()
	unnamed := fullInfo()
	unnamed.Name = nil

	namedClause, namedArgs := infoMatchClause(named)
	unnamedClause, unnamedArgs := infoMatchClause(unnamed)

	// A nameless config must not reuse a named row's predicate.
	assert.NotEqual(t, namedClause, unnamedClause)
	require.NotEqual(t, len(namedArgs), len(unnamedArgs))
}
