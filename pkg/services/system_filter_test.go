package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemSchemas(t *testing.T) {
	tests := []struct {
		provider string
		contains []string
	}{
		{"postgresql", []string{"information_schema", "pg_catalog", "pg_toast", "auth", "storage"}},
		{"postgresql-supabase", []string{"supabase_migrations", "vault", "realtime"}},
		{"PostgreSQL-Neon", []string{"pg_catalog"}},
		{"mysql", []string{"information_schema", "mysql", "performance_schema", "sys"}},
		{"sqlite", []string{"sqlite_master"}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			schemas := SystemSchemas(tt.provider)
			for _, want := range tt.contains {
				assert.Contains(t, schemas, want)
			}
		})
	}
}

func TestSystemSchemas_UnknownProvider(t *testing.T) {
	// Unknown providers never fail; they just contribute nothing.
	assert.Empty(t, SystemSchemas("oracle"))
}

func TestIsSystemSchema(t *testing.T) {
	assert.True(t, IsSystemSchema("PG_CATALOG", "postgresql"))
	assert.True(t, IsSystemSchema("information_schema", "mysql"))
	assert.False(t, IsSystemSchema("public", "postgresql"))
	assert.False(t, IsSystemSchema("pg_catalog", "unknown-provider"))
}

func TestAllSystemSchemas(t *testing.T) {
	all := AllSystemSchemas()
	assert.Contains(t, all, "pg_catalog")
	assert.Contains(t, all, "mysql")
	assert.Contains(t, all, "sqlite_master")
	assert.NotContains(t, all, "public")
}

func TestIsSystemTableName(t *testing.T) {
	assert.True(t, IsSystemTableName("pg_stat_activity"))
	assert.True(t, IsSystemTableName("sqlite_sequence"))
	assert.True(t, IsSystemTableName("duckdb_settings"))
	assert.True(t, IsSystemTableName("_internal"))
	assert.True(t, IsSystemTableName("schema_migrations"))
	assert.True(t, IsSystemTableName("app_secrets"))
	assert.False(t, IsSystemTableName("customers"))
}

func TestIsSystemOrTempTable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"temp_foo", true},
		{"pg_catalog", true},
		{"sqlite_master", true},
		{"duckdb_tables", true},
		{"pragma_table_info", true},
		{"information_schema", true},
		{"orders_temp", true},
		{"orders_tmp", true},
		{"main.orders", true},
		{"temp.scratch", true},
		{"customers", false},
		{"orders", false},
		{"Templates", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSystemOrTempTable(tt.name))
		})
	}
}
