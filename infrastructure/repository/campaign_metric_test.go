package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/rokt-tap/internal/domain"
)

func TestBuildUpsert(t *testing.T) {
	records := []domain.MetricRecord{
		{"campaign_id": "C1", "campaign_name": "Promo", "date": "2024-03-01", "impressions": 100.0, "gross_cost": "12.5"},
		{"campaign_id": "C2", "date": "2024-03-01", "referrals": 3.0},
	}

	query, args, err := buildUpsert("A1", records)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO rokt_campaign_metrics (account_id,campaign_id,campaign_name,date,metrics) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)"))
	assert.Contains(t, query, "ON CONFLICT (account_id, campaign_id, date) DO UPDATE SET")
	require.Len(t, args, 10)

	assert.Equal(t, "A1", args[0])
	assert.Equal(t, "C1", args[1])
	assert.Equal(t, "Promo", args[2])
	assert.Equal(t, "2024-03-01", args[3])

	var metrics map[string]float64
	require.NoError(t, jsoniter.Unmarshal(args[4].([]byte), &metrics))
	assert.Equal(t, map[string]float64{"impressions": 100, "gross_cost": 12.5}, metrics)

	assert.Equal(t, "C2", args[6])
	assert.Equal(t, "", args[7])
}

func TestBuildSelectByDateRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)

	query, args, err := buildSelectByDateRange("A1", start, end)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM rokt_campaign_metrics WHERE account_id = $1 AND date >= $2 AND date <= $3")
	assert.Contains(t, query, "ORDER BY date ASC, campaign_id ASC")
	assert.Equal(t, []interface{}{"A1", "2024-03-01", "2024-03-07"}, args)
}

func TestSaveOrUpdate_SemRegistros(t *testing.T) {
	repo := NewCampaignMetricRepository(nil, 0)

	n, err := repo.SaveOrUpdate(context.Background(), "A1", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDedupeByKey(t *testing.T) {
	records := []domain.MetricRecord{
		{"campaign_id": "C1", "date": "2024-03-01", "impressions": 1.0},
		{"campaign_id": "C2", "date": "2024-03-01", "impressions": 2.0},
		{"campaign_id": "C1", "date": "2024-03-01", "impressions": 3.0},
		{"campaign_id": "C1", "date": "2024-03-02", "impressions": 4.0},
	}

	out := dedupeByKey(records)
	require.Len(t, out, 3)
	assert.Equal(t, 3.0, out[0]["impressions"])
	assert.Equal(t, "C2", out[1].CampaignID())
	assert.Equal(t, "2024-03-02", out[2].Date())
}
