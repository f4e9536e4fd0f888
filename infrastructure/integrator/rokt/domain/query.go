package roktdomain

import "github.com/vfg2006/rokt-tap/internal/domain"

const (
	IntervalDay        = "day"
	OrderDirectionDesc = "desc"
)

// CampaignDimensions são as dimensões de agrupamento fixas da consulta
var CampaignDimensions = []string{domain.FieldCampaignID, domain.FieldCampaignName}

type OrderBy struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// QueryRequest é o corpo enviado para /query/accounts/{account_id}/campaigns/
type QueryRequest struct {
	Interval         string         `json:"interval"`
	StartDate        string         `json:"startDate"`
	EndDate          string         `json:"endDate"`
	DimensionFilters map[string]any `json:"dimensionFilters"`
	Metrics          []string       `json:"metrics"`
	Dimensions       []string       `json:"dimensions"`
	OrderBys         []OrderBy      `json:"orderBys"`
}

// NewCampaignsBreakdownQuery monta a consulta diária por campanha para a janela informada.
// Moeda e fuso ficam apenas na janela; a API não recebe esses campos.
func NewCampaignsBreakdownQuery(window domain.SyncWindow) QueryRequest {
	metrics := make([]string, len(domain.MetricNames))
	copy(metrics, domain.MetricNames)

	dimensions := make([]string, len(CampaignDimensions))
	copy(dimensions, CampaignDimensions)

	return QueryRequest{
		Interval:         IntervalDay,
		StartDate:        window.StartDateString(),
		EndDate:          window.EndDateString(),
		DimensionFilters: map[string]any{},
		Metrics:          metrics,
		Dimensions:       dimensions,
		OrderBys: []OrderBy{
			{Column: domain.FieldReferrals, Direction: OrderDirectionDesc},
		},
	}
}

// Response é o JSON decodificado de uma resposta da API
type Response map[string]any
