package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skald-ai/skald-engine/pkg/models"
)

func ecommerceSchema() models.Schema {
	return models.Schema{
		Tables: []models.Table{
			{
				TableName: "orders",
				Columns: []models.Column{
					{ColumnName: "order_id", ColumnType: "INTEGER"},
					{ColumnName: "customer_id", ColumnType: "INTEGER"},
					{ColumnName: "payment_method", ColumnType: "VARCHAR"},
					{ColumnName: "shipping_address", ColumnType: "VARCHAR"},
				},
			},
			{
				TableName: "products",
				Columns: []models.Column{
					{ColumnName: "product_id", ColumnType: "INTEGER"},
					{ColumnName: "product_name", ColumnType: "VARCHAR"},
				},
			},
		},
	}
}

func TestInferDomain_Ecommerce(t *testing.T) {
	result := InferDomain([]models.Schema{ecommerceSchema()})

	assert.Equal(t, "ecommerce", result.Domain)
	assert.Greater(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Contains(t, result.Keywords, "order")
	assert.Contains(t, result.Keywords, "payment")
}

func TestInferDomain_EmptyInput(t *testing.T) {
	result := InferDomain(nil)

	assert.Equal(t, GeneralDomain, result.Domain)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Empty(t, result.Keywords)
	assert.Empty(t, result.AlternativeDomains)
}

func TestInferDomain_AlternativesBounded(t *testing.T) {
	result := InferDomain([]models.Schema{ecommerceSchema()})

	require.LessOrEqual(t, len(result.AlternativeDomains), 3)
	prev := result.Confidence
	for _, alt := range result.AlternativeDomains {
		assert.Greater(t, alt.Confidence, 0.0)
		assert.LessOrEqual(t, alt.Confidence, prev)
		prev = alt.Confidence
	}
}

func TestInferDomain_Deterministic(t *testing.T) {
	schemas := []models.Schema{ecommerceSchema()}
	first := InferDomain(schemas)
	second := InferDomain(schemas)

	assert.Equal(t, first, second)
}

func TestInferDomain_ShortTokensIgnored(t *testing.T) {
	schema := models.Schema{
		Tables: []models.Table{
			{TableName: "t", Columns: []models.Column{
				{ColumnName: "id", ColumnType: "INTEGER"},
				{ColumnName: "at", ColumnType: "DATE"},
			}},
		},
	}

	result := InferDomain([]models.Schema{schema})
	assert.Equal(t, GeneralDomain, result.Domain)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestDefaultDomain(t *testing.T) {
	d := DefaultDomain()
	assert.Equal(t, GeneralDomain, d.Domain)
	assert.InDelta(t, 0.5, d.Confidence, 1e-9)
	assert.NotNil(t, d.Keywords)
	assert.NotNil(t, d.AlternativeDomains)
}
