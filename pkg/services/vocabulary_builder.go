package services

import (
	"strings"

	"github.com/skald-ai/skald-engine/pkg/models"
)

// DefaultMinVocabularyConfidence excludes low-confidence entities from the
// vocabulary entirely.
const DefaultMinVocabularyConfidence = 0.7

// businessSynonyms seeds vocabulary entries for common business terms.
var businessSynonyms = map[string][]string{
	"customer":   {"client", "user", "buyer", "purchaser"},
	"order":      {"purchase", "transaction", "sale"},
	"product":    {"item", "goods", "merchandise"},
	"employee":   {"staff", "worker", "personnel"},
	"department": {"dept", "division", "unit"},
	"revenue":    {"sales", "income", "amount", "total"},
	"status":     {"state", "condition"},
	"date":       {"timestamp", "time", "created_at", "updated_at"},
}

// pluralToSingular maps irregular or domain-specific plurals checked before
// the generic suffix rules.
var pluralToSingular = map[string]string{
	"customers":    "customer",
	"users":        "user",
	"orders":       "order",
	"products":     "product",
	"employees":    "employee",
	"departments":  "department",
	"items":        "item",
	"transactions": "transaction",
	"sales":        "sale",
}

// ToSingular converts a plural word to its singular form: the irregular map
// first, then -ies/-es/-s suffix rules.
func ToSingular(word string) string {
	lower := strings.ToLower(word)
	if singular, ok := pluralToSingular[lower]; ok {
		return singular
	}
	if strings.HasSuffix(lower, "ies") {
		return lower[:len(lower)-3] + "y"
	}
	if strings.HasSuffix(lower, "es") && len(lower) > 3 {
		return lower[:len(lower)-2]
	}
	if strings.HasSuffix(lower, "s") && len(lower) > 1 {
		return lower[:len(lower)-1]
	}
	return word
}

// NormalizeTerm produces the canonical deduplication key for a term:
// lower-cased, non-alphanumeric characters stripped, underscore runs
// collapsed, leading/trailing underscores removed.
func NormalizeTerm(term string) string {
	lower := strings.ToLower(strings.TrimSpace(term))

	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	collapsed := b.String()
	for strings.Contains(collapsed, "__") {
		collapsed = strings.ReplaceAll(collapsed, "__", "_")
	}
	return strings.Trim(collapsed, "_")
}

func synonymsFor(entityNameLower string) []string {
	syns, ok := businessSynonyms[entityNameLower]
	if !ok {
		return []string{}
	}
	return append([]string{}, syns...)
}

// BuildVocabulary expands entities into a term-to-column mapping with
// synonym and variation keys. Entities below minConfidence contribute
// nothing. Normalized keys are claimed first-come: literal column names
// register before their derived variations, so literals win ties, and an
// already-claimed key merges technical terms into the claiming entry
// instead of creating a duplicate. minConfidence <= 0 means
// DefaultMinVocabularyConfidence.
func BuildVocabulary(entities []*models.BusinessEntity, minConfidence float64) map[string]*models.VocabularyEntry {
	if minConfidence <= 0 {
		minConfidence = DefaultMinVocabularyConfidence
	}

	vocabulary := make(map[string]*models.VocabularyEntry)
	claimed := make(map[string]string) // normalized key -> vocabulary key

	for _, entity := range entities {
		if entity.Confidence < minConfidence {
			continue
		}

		entityKey := strings.ToLower(entity.Name)
		entry, ok := vocabulary[entityKey]
		if !ok {
			entry = &models.VocabularyEntry{
				BusinessTerm:   entity.Name,
				TechnicalTerms: []string{},
				Confidence:     entity.Confidence,
				Synonyms:       synonymsFor(entityKey),
			}
			vocabulary[entityKey] = entry
		}
		for _, column := range entity.Columns {
			if !containsString(entry.TechnicalTerms, column) {
				entry.TechnicalTerms = append(entry.TechnicalTerms, column)
			}
		}

		for _, column := range entity.Columns {
			colKey := strings.ToLower(column)
			normalized := NormalizeTerm(column)

			if claimedKey, ok := claimed[normalized]; ok {
				existing := vocabulary[claimedKey]
				if !containsString(existing.TechnicalTerms, column) {
					existing.TechnicalTerms = append(existing.TechnicalTerms, column)
				}
				continue
			}

			claimed[normalized] = colKey
			if _, ok := vocabulary[colKey]; !ok {
				vocabulary[colKey] = &models.VocabularyEntry{
					BusinessTerm:   entity.Name,
					TechnicalTerms: []string{column},
					Confidence:     1.0,
					Synonyms:       synonymsFor(entityKey),
				}
			}

			for _, variation := range termVariations(column) {
				if variation == "" || variation == column {
					continue
				}
				varKey := strings.ToLower(variation)
				varNormalized := NormalizeTerm(variation)
				if _, taken := claimed[varNormalized]; taken {
					continue
				}
				if _, exists := vocabulary[varKey]; exists {
					continue
				}
				claimed[varNormalized] = varKey
				vocabulary[varKey] = &models.VocabularyEntry{
					BusinessTerm:   entity.Name,
					TechnicalTerms: []string{column},
					Confidence:     0.8,
					Synonyms:       synonymsFor(entityKey),
				}
			}
		}
	}

	return vocabulary
}

// termVariations derives secondary vocabulary keys for a column name.
func termVariations(column string) []string {
	return []string{
		strings.TrimSuffix(column, "_id"),
		strings.TrimPrefix(column, "user_"),
		strings.TrimPrefix(column, "customer_"),
		strings.TrimPrefix(column, "order_"),
		ToSingular(column),
	}
}
