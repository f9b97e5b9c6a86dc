package services

import (
	"sort"
	"strings"

	"github.com/skald-ai/skald-engine/pkg/models"
)

// DefaultConfidenceThreshold prunes entities the analyzer is not reasonably
// sure about.
const DefaultConfidenceThreshold = 0.6

// rolePrefixes are stripped from column names before inferring an entity
// name, so "customer_email" and "email" land on the same entity.
var rolePrefixes = []string{"user_", "customer_", "order_", "product_", "dept_", "item_"}

// coreBusinessNouns promote a column to an entity classification when they
// appear anywhere in the name.
var coreBusinessNouns = []string{"user", "customer", "order"}

// entityNamePrefixes are the recognized prefixes that raise confidence for
// entity-typed columns.
var entityNamePrefixes = []string{"user", "customer", "order", "product"}

// AnalyzeOptions controls AnalyzeSchema pruning and early termination.
type AnalyzeOptions struct {
	// SkipExisting skips columns whose inferred entity key is already
	// present in ExistingEntities.
	SkipExisting     bool
	ExistingEntities map[string]*models.BusinessEntity

	// ConfidenceThreshold drops entities scored below it. Zero means
	// DefaultConfidenceThreshold.
	ConfidenceThreshold float64

	// MaxEntities truncates the result. Zero or negative means unbounded.
	MaxEntities int
}

// InferEntityName derives a human entity label from a technical column
// name: identifier suffixes and role prefixes are stripped, the remaining
// underscore-delimited tokens are title-cased. An empty residue falls back
// to the raw column name.
func InferEntityName(columnName string) string {
	name := strings.ToLower(columnName)

	if strings.HasSuffix(name, "_id") {
		name = strings.TrimSuffix(name, "_id")
	} else if strings.HasSuffix(name, "id") {
		name = strings.TrimSuffix(name, "id")
	}

	for _, prefix := range rolePrefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}

	words := splitWords(name)
	if len(words) == 0 {
		return columnName
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	parts := strings.Split(name, "_")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// DetectBusinessType classifies a column as an entity, attribute, or
// relationship from its name and source type.
func DetectBusinessType(columnName, dataType string) string {
	name := strings.ToLower(columnName)

	if strings.HasSuffix(name, "_id") || name == "id" {
		return models.BusinessTypeRelationship
	}

	for _, noun := range coreBusinessNouns {
		if strings.Contains(name, noun) {
			return models.BusinessTypeEntity
		}
	}
	if strings.HasSuffix(name, "_key") && strings.Contains(strings.ToUpper(dataType), "INTEGER") {
		return models.BusinessTypeEntity
	}

	return models.BusinessTypeAttribute
}

// EntityConfidence scores a column by a fixed priority table, capped at 1.0.
func EntityConfidence(columnName, dataType, businessType string) float64 {
	confidence := 0.5

	name := strings.ToLower(columnName)
	upperType := strings.ToUpper(dataType)

	switch {
	case name == "id" && strings.Contains(upperType, "INTEGER"):
		confidence = 0.95
	case strings.HasSuffix(name, "_id") && strings.Contains(upperType, "INTEGER"):
		confidence = 0.9
	case businessType == models.BusinessTypeEntity && hasAnyPrefix(name, entityNamePrefixes):
		confidence = 0.85
	case businessType == models.BusinessTypeRelationship:
		confidence = 0.8
	case strings.Contains(upperType, "VARCHAR") && containsAny(name, []string{"name", "title", "description"}):
		confidence = 0.75
	case strings.Contains(upperType, "DATE") || strings.Contains(upperType, "TIMESTAMP"):
		confidence = 0.7
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// AnalyzeSchema extracts scored business entities from one schema. System
// and temp tables are skipped. Same-named entities are merged across
// columns and tables: column and view sets union, confidence keeps the max
// and never decreases. The result is sorted by descending confidence and
// truncated to MaxEntities. Never fails; malformed input yields an empty
// list.
func AnalyzeSchema(schema models.Schema, opts AnalyzeOptions) []*models.BusinessEntity {
	threshold := opts.ConfidenceThreshold
	if threshold == 0 {
		threshold = DefaultConfidenceThreshold
	}

	entityMap := make(map[string]*models.BusinessEntity)
	order := make([]string, 0)

	for _, table := range schema.Tables {
		if IsSystemOrTempTable(table.TableName) {
			continue
		}

		for _, column := range table.Columns {
			name := InferEntityName(column.ColumnName)
			key := strings.ToLower(name)

			if opts.SkipExisting {
				if _, ok := opts.ExistingEntities[key]; ok {
					continue
				}
			}

			businessType := DetectBusinessType(column.ColumnName, column.ColumnType)
			confidence := EntityConfidence(column.ColumnName, column.ColumnType, businessType)
			if confidence < threshold {
				continue
			}

			if existing, ok := entityMap[key]; ok {
				if !containsString(existing.Columns, column.ColumnName) {
					existing.Columns = append(existing.Columns, column.ColumnName)
				}
				if !containsString(existing.Views, table.TableName) {
					existing.Views = append(existing.Views, table.TableName)
				}
				if confidence > existing.Confidence {
					existing.Confidence = confidence
				}
			} else {
				entityMap[key] = &models.BusinessEntity{
					Name:         name,
					Columns:      []string{column.ColumnName},
					Views:        []string{table.TableName},
					DataType:     column.ColumnType,
					BusinessType: businessType,
					Confidence:   confidence,
				}
				order = append(order, key)
			}
		}
	}

	result := make([]*models.BusinessEntity, 0, len(order))
	for _, key := range order {
		result = append(result, entityMap[key])
	}
	// Stable sort keeps insertion order for equal confidences, so repeated
	// runs over the same schema produce identical output.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Confidence > result[j].Confidence
	})

	if opts.MaxEntities > 0 && len(result) > opts.MaxEntities {
		result = result[:opts.MaxEntities]
	}
	return result
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
