package models

// Column represents a single column of an ingested tabular schema.
// ColumnType is the source-native type string (e.g. "INTEGER", "VARCHAR").
type Column struct {
	ColumnName string `json:"column_name"`
	ColumnType string `json:"column_type"`
}

// Table represents a table or view within a schema. Table identity is
// name-scoped within its schema.
type Table struct {
	TableName string   `json:"table_name"`
	Columns   []Column `json:"columns"`
}

// Schema is one tabular schema as reported by a datasource. Produced fresh
// per inference call; never persisted as-is.
type Schema struct {
	DatabaseName string  `json:"database_name"`
	SchemaName   string  `json:"schema_name"`
	Tables       []Table `json:"tables"`
}
