package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"user", RoleUser},
		{"guest", RoleGuest},
		{"  Admin ", RoleAdmin},
		{"USER", RoleUser},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "root", "superadmin", "admin2"} {
		_, err := ParseRole(in)
		assert.Error(t, err, "%q must not parse", in)
	}
}

func TestRoleSQLRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleGuest, RoleUser, RoleAdmin} {
		val, err := role.Value()
		require.NoError(t, err)

		var back Role
		require.NoError(t, back.Scan(val))
		assert.Equal(t, role, back)
	}
}

func TestRoleScanRejectsUnknown(t *testing.T) {
	var r Role
	assert.Error(t, r.Scan("owner"))
	assert.Error(t, r.Scan(42))
}

func TestRoleJSON(t *testing.T) {
	out, err := json.Marshal(RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, `"admin"`, string(out))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"user"`), &r))
	assert.Equal(t, RoleUser, r)

	assert.Error(t, json.Unmarshal([]byte(`"walrus"`), &r))
}
