package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSchemaDefaults(t *testing.T) {
	schema, err := LoadSchema("")
	require.NoError(t, err)
	require.Len(t, schema.RoleTables, 5)
	require.Equal(t, "Students", schema.RoleTables[0].Table)
	require.Equal(t, "Availability", schema.Availability)
}

func TestLoadSchemaOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	body := []byte("role_tables:\n  - table: Staff\n    role: Team\navailability: Student Availability\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	require.Equal(t, []RoleTable{{Table: "Staff", Role: "Team"}}, schema.RoleTables)
	require.Equal(t, "Student Availability", schema.Availability)
	require.Equal(t, "Classes", schema.Classes)
}

func TestLoadSchemaRejectsIncompleteRoleTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("role_tables:\n  - table: Staff\n"), 0o600))

	_, err := LoadSchema(path)
	require.Error(t, err)
}

func TestMissingStoreIdentifiers(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: StoreDriverAirtable, Token: "tok", ContactBaseID: "app1"}}
	missing := cfg.MissingStoreIdentifiers()
	require.Contains(t, missing, "INVOICING_BASE_ID")
	require.NotContains(t, missing, "CONTACT_BASE_ID")

	cfg.Store.Driver = StoreDriverMemory
	require.Empty(t, cfg.MissingStoreIdentifiers())
}
