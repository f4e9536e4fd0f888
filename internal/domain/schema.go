package domain

// Property descreve um campo do schema JSON do stream
type Property struct {
	Type []string `json:"type"`
}

// Schema é o schema JSON declarado para os registros do stream
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
}

// CampaignsBreakdownSchema retorna o schema fixo do stream campaigns_breakdown:
// campaign_id, campaign_name e date como string e todas as métricas como number
func CampaignsBreakdownSchema() Schema {
	properties := map[string]Property{
		FieldCampaignID:   {Type: []string{"string", "null"}},
		FieldCampaignName: {Type: []string{"string", "null"}},
		FieldDate:         {Type: []string{"string", "null"}},
	}
	for _, name := range MetricNames {
		properties[name] = Property{Type: []string{"number", "null"}}
	}

	return Schema{
		Type:       "object",
		Properties: properties,
	}
}

// CatalogEntry descreve o stream para o comando discover
type CatalogEntry struct {
	TapStreamID       string   `json:"tap_stream_id"`
	Stream            string   `json:"stream"`
	Schema            Schema   `json:"schema"`
	KeyProperties     []string `json:"key_properties"`
	ReplicationMethod string   `json:"replication_method"`
}

type Catalog struct {
	Streams []CatalogEntry `json:"streams"`
}

// NewCatalog retorna o catálogo com o único stream do tap
func NewCatalog() Catalog {
	return Catalog{
		Streams: []CatalogEntry{
			{
				TapStreamID:       StreamCampaignsBreakdown,
				Stream:            StreamCampaignsBreakdown,
				Schema:            CampaignsBreakdownSchema(),
				KeyProperties:     KeyProperties,
				ReplicationMethod: "FULL_TABLE",
			},
		},
	}
}
