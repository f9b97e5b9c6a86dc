package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skald-ai/skald-engine/pkg/models"
)

func TestToSingular(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"customers", "customer"}, // irregular map
		{"sales", "sale"},         // irregular map beats -es rule
		{"categories", "category"},
		{"boxes", "box"},
		{"views", "view"},
		{"s", "s"}, // too short for the -s rule
		{"order", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSingular(tt.word))
		})
	}
}

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"Customer ID", "customerid"},
		{"customer_id", "customer_id"},
		{"  customer__id  ", "customer_id"},
		{"_customer_", "customer"},
		{"a-b.c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.term))
		})
	}
}

func TestBuildVocabulary_UsersTable(t *testing.T) {
	entities := AnalyzeSchema(usersSchema(), AnalyzeOptions{})
	vocab := BuildVocabulary(entities, 0)

	customer, ok := vocab["customer"]
	require.True(t, ok, "vocabulary should contain the customer term")
	assert.Contains(t, customer.TechnicalTerms, "customer_id")
	assert.Contains(t, customer.Synonyms, "client")

	literal, ok := vocab["customer_id"]
	require.True(t, ok)
	assert.InDelta(t, 1.0, literal.Confidence, 1e-9)
	assert.Equal(t, "Customer", literal.BusinessTerm)
}

func TestBuildVocabulary_SkipsLowConfidenceEntities(t *testing.T) {
	entities := []*models.BusinessEntity{
		{Name: "Notes", Columns: []string{"notes"}, Confidence: 0.5},
	}

	// Below minConfidence the entity contributes nothing, not even its
	// literal column name.
	assert.Empty(t, BuildVocabulary(entities, 0.7))
}

func TestBuildVocabulary_NormalizedKeysUnique(t *testing.T) {
	entities := []*models.BusinessEntity{
		{Name: "Customer", Columns: []string{"customer_id", "Customer__ID"}, Confidence: 0.9},
		{Name: "Order", Columns: []string{"order_id", "orders"}, Confidence: 0.85},
	}

	vocab := BuildVocabulary(entities, 0.7)

	seen := make(map[string]string)
	for key := range vocab {
		normalized := NormalizeTerm(key)
		prev, dup := seen[normalized]
		assert.False(t, dup, "normalized key %q claimed by both %q and %q", normalized, prev, key)
		seen[normalized] = key
	}
}

func TestBuildVocabulary_MergesEquivalentTerms(t *testing.T) {
	entities := []*models.BusinessEntity{
		{Name: "Customer", Columns: []string{"customer_id", "Customer__ID"}, Confidence: 0.9},
	}

	vocab := BuildVocabulary(entities, 0.7)

	// The second column normalizes to the same key as the first, so it
	// merges into the claiming entry rather than creating a duplicate.
	literal, ok := vocab["customer_id"]
	require.True(t, ok)
	assert.Contains(t, literal.TechnicalTerms, "customer_id")
	assert.Contains(t, literal.TechnicalTerms, "Customer__ID")
	_, dup := vocab["customer__id"]
	assert.False(t, dup)
}

func TestBuildVocabulary_VariationsPointAtColumn(t *testing.T) {
	entities := []*models.BusinessEntity{
		{Name: "Order", Columns: []string{"order_id"}, Confidence: 0.9},
	}

	vocab := BuildVocabulary(entities, 0.7)

	variation, ok := vocab["order"]
	require.True(t, ok, "stripping _id should register an order variation")
	assert.InDelta(t, 0.8, variation.Confidence, 1e-9)
	assert.Equal(t, []string{"order_id"}, variation.TechnicalTerms)
}

func TestBuildVocabulary_LiteralWinsOverVariation(t *testing.T) {
	// "orders" singularizes to "order", which a later literal column must
	// not displace: first claim wins.
	entities := []*models.BusinessEntity{
		{Name: "Order", Columns: []string{"orders", "order"}, Confidence: 0.9},
	}

	vocab := BuildVocabulary(entities, 0.7)

	entry, ok := vocab["order"]
	require.True(t, ok)
	// The variation derived from "orders" claimed the key first; the later
	// literal "order" merges into it.
	assert.Contains(t, entry.TechnicalTerms, "orders")
	assert.Contains(t, entry.TechnicalTerms, "order")
}
