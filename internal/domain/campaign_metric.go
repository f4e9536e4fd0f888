package domain

import (
	"time"
)

// CampaignMetricEntry representa as métricas de uma campanha em um dia, armazenadas no banco
type CampaignMetricEntry struct {
	ID           int64              `json:"id"`
	AccountID    string             `json:"account_id"`
	CampaignID   string             `json:"campaign_id"`
	CampaignName string             `json:"campaign_name"`
	Date         time.Time          `json:"date"`
	Metrics      map[string]float64 `json:"metrics"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
