package services

import "strings"

// Base engine families for system-schema classification. A datasource
// provider maps onto one of these families.
const (
	engineFamilyPostgres = "POSTGRES"
	engineFamilyMySQL    = "MYSQL"
	engineFamilySQLite   = "SQLITE"
)

// baseSystemSchemas lists engine-internal schemas per engine family.
var baseSystemSchemas = map[string][]string{
	engineFamilyPostgres: {
		"information_schema",
		"pg_catalog",
		"pg_toast",
		"pg_temp",
		"pg_toast_temp",
		"supabase_migrations",
		"vault",
		"storage",
		"realtime",
		"graphql",
		"graphql_public",
		"auth",
		"extensions",
		"pgbouncer",
	},
	engineFamilyMySQL:  {"information_schema", "mysql", "performance_schema", "sys"},
	engineFamilySQLite: {"sqlite_master"},
}

// providerEngineFamilies maps datasource providers to their engine family.
// Providers absent from this table contribute no base schemas.
var providerEngineFamilies = map[string]string{
	"postgresql":          engineFamilyPostgres,
	"postgresql-supabase": engineFamilyPostgres,
	"postgresql-neon":     engineFamilyPostgres,
	"mysql":               engineFamilyMySQL,
	"sqlite":              engineFamilySQLite,
}

// providerSystemSchemas holds provider-specific schema sets layered on top
// of the engine family's base set.
var providerSystemSchemas = map[string][]string{
	"postgresql":          {},
	"postgresql-supabase": {},
	"postgresql-neon":     {},
	"mysql":               {},
	"sqlite":              {},
}

// SystemSchemas returns the lower-cased set of schema names considered
// internal to the given datasource provider's engine. Unknown providers
// yield only their provider-specific set, possibly empty; this never fails.
func SystemSchemas(datasourceProvider string) map[string]struct{} {
	provider := strings.ToLower(datasourceProvider)

	schemas := make(map[string]struct{})
	if family, ok := providerEngineFamilies[provider]; ok {
		for _, s := range baseSystemSchemas[family] {
			schemas[strings.ToLower(s)] = struct{}{}
		}
	}
	for _, s := range providerSystemSchemas[provider] {
		schemas[strings.ToLower(s)] = struct{}{}
	}
	return schemas
}

// IsSystemSchema reports whether schemaName is a system schema for the
// given provider, case-insensitively.
func IsSystemSchema(schemaName, datasourceProvider string) bool {
	_, ok := SystemSchemas(datasourceProvider)[strings.ToLower(schemaName)]
	return ok
}

// AllSystemSchemas returns the union of system schemas across all known
// providers. Useful for filtering when the provider is unknown.
func AllSystemSchemas() map[string]struct{} {
	schemas := make(map[string]struct{})
	for _, list := range baseSystemSchemas {
		for _, s := range list {
			schemas[strings.ToLower(s)] = struct{}{}
		}
	}
	for _, list := range providerSystemSchemas {
		for _, s := range list {
			schemas[strings.ToLower(s)] = struct{}{}
		}
	}
	return schemas
}

// IsSystemTableName reports whether a table name looks engine-internal by
// naming convention alone, independent of provider. Cheap fallback when the
// provider is unknown.
func IsSystemTableName(tableName string) bool {
	name := strings.ToLower(tableName)
	return strings.HasPrefix(name, "pg_") ||
		strings.HasPrefix(name, "sqlite_") ||
		strings.HasPrefix(name, "duckdb_") ||
		strings.HasPrefix(name, "_") ||
		strings.Contains(name, "_migrations") ||
		strings.Contains(name, "_secrets")
}

// IsSystemOrTempTable reports whether a table should be excluded from
// business-context analysis as a system or temporary table.
func IsSystemOrTempTable(tableName string) bool {
	name := strings.ToLower(tableName)
	return strings.HasPrefix(name, "temp_") ||
		strings.HasPrefix(name, "pragma_") ||
		name == "information_schema" ||
		strings.Contains(name, "_temp") ||
		strings.Contains(name, "_tmp") ||
		strings.HasPrefix(name, "pg_") ||
		strings.HasPrefix(name, "sqlite_") ||
		strings.HasPrefix(name, "duckdb_") ||
		strings.HasPrefix(name, "main.") ||
		strings.HasPrefix(name, "temp.")
}
