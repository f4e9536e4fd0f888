package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		ok   bool
	}{
		{name: "placeholder lista vazia", raw: []any{}, ok: false},
		{name: "placeholder objeto vazio", raw: map[string]any{}, ok: false},
		{name: "nulo", raw: nil, ok: false},
		{name: "campaign_id nulo", raw: map[string]any{"campaign_id": nil, "datetime": "2024-01-05T00:00:00"}, ok: false},
		{name: "campaign_id ausente", raw: map[string]any{"datetime": "2024-01-05T00:00:00"}, ok: false},
		{name: "datetime ausente", raw: map[string]any{"campaign_id": "c1"}, ok: false},
		{name: "datetime inválido", raw: map[string]any{"campaign_id": "c1", "datetime": "xxxxxxxxxxT"}, ok: false},
		{name: "registro válido", raw: map[string]any{"campaign_id": "c1", "datetime": "2024-01-05T00:00:00"}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NewMetricRecord(tt.raw)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewMetricRecord_DerivaDataSemAlterarOriginal(t *testing.T) {
	raw := map[string]any{
		"campaign_id":   "C1",
		"campaign_name": "Promo",
		"datetime":      "2024-03-01T00:00:00",
		"impressions":   float64(100),
		"gross_cost":    "12.5",
		"account_name":  "não declarado",
	}

	record, ok := NewMetricRecord(raw)
	require.True(t, ok)

	assert.Equal(t, "C1", record.CampaignID())
	assert.Equal(t, "Promo", record.CampaignName())
	assert.Equal(t, "2024-03-01", record.Date())
	assert.NotContains(t, raw, FieldDate)
	assert.NotContains(t, record, FieldDatetime)
	for field := range record {
		assert.Contains(t, CampaignsBreakdownSchema().Properties, field)
	}

	impressions, ok := record.Number("impressions")
	assert.True(t, ok)
	assert.Equal(t, 100.0, impressions)

	metrics := record.Metrics()
	assert.Equal(t, 12.5, metrics["gross_cost"])
	assert.NotContains(t, metrics, "referrals")
}

func TestCampaignsBreakdownSchema(t *testing.T) {
	schema := CampaignsBreakdownSchema()

	assert.Len(t, schema.Properties, len(MetricNames)+3)
	assert.Equal(t, []string{"string", "null"}, schema.Properties[FieldCampaignID].Type)
	assert.Equal(t, []string{"number", "null"}, schema.Properties["impressions"].Type)

	catalog := NewCatalog()
	require.Len(t, catalog.Streams, 1)
	assert.Equal(t, StreamCampaignsBreakdown, catalog.Streams[0].Stream)
	assert.Equal(t, []string{"campaign_id", "date"}, catalog.Streams[0].KeyProperties)
}
