package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/rokt-tap/infrastructure/database/postgres"
	"github.com/vfg2006/rokt-tap/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	campaignMetricsTable = "rokt_campaign_metrics"
	dateLayout           = "2006-01-02"

	// DefaultBatchSize limita as linhas por INSERT para ficar abaixo do
	// máximo de 65535 parâmetros do Postgres
	DefaultBatchSize = 500
)

var campaignMetricColumns = []string{"account_id", "campaign_id", "campaign_name", "date", "metrics"}

//go:generate mockgen -source=campaign_metric.go -destination=mocks/mock_campaign_metric.go -package=mocks
type CampaignMetricRepository interface {
	SaveOrUpdate(ctx context.Context, accountID string, records []domain.MetricRecord) (int64, error)
	GetByDateRange(ctx context.Context, accountID string, startDate, endDate time.Time) ([]*domain.CampaignMetricEntry, error)
}

type campaignMetricRepository struct {
	conn      postgres.Conn
	batchSize int
}

func NewCampaignMetricRepository(conn postgres.Conn, batchSize int) CampaignMetricRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &campaignMetricRepository{
		conn:      conn,
		batchSize: batchSize,
	}
}

// SaveOrUpdate grava todos os registros em uma única transação, em lotes de
// batchSize linhas. Uma linha já existente para (account_id, campaign_id, date)
// é sobrescrita.
func (r *campaignMetricRepository) SaveOrUpdate(ctx context.Context, accountID string, records []domain.MetricRecord) (int64, error) {
	records = dedupeByKey(records)
	if len(records) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(records); start += r.batchSize {
			end := min(start+r.batchSize, len(records))

			query, args, err := buildUpsert(accountID, records[start:end])
			if err != nil {
				return err
			}

			result, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return errors.Wrapf(pqErr, "erro no banco de dados (código: %s)", pqErr.Code)
				}
				return errors.Wrap(err, "erro ao executar a query")
			}

			n, err := result.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "erro ao obter número de linhas afetadas")
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// dedupeByKey mantém a última ocorrência de cada (campaign_id, date). O Postgres
// rejeita um ON CONFLICT que atualize a mesma linha duas vezes no mesmo INSERT.
func dedupeByKey(records []domain.MetricRecord) []domain.MetricRecord {
	type key struct{ campaignID, date string }

	index := make(map[key]int, len(records))
	out := make([]domain.MetricRecord, 0, len(records))
	for _, record := range records {
		k := key{record.CampaignID(), record.Date()}
		if i, ok := index[k]; ok {
			out[i] = record
			continue
		}
		index[k] = len(out)
		out = append(out, record)
	}
	return out
}

func buildUpsert(accountID string, records []domain.MetricRecord) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert(campaignMetricsTable).
		Columns(campaignMetricColumns...)

	for _, record := range records {
		metricsJSON, err := json.Marshal(record.Metrics())
		if err != nil {
			return "", nil, errors.Wrap(err, "erro ao serializar métricas para JSON")
		}

		query = query.Values(
			accountID,
			record.CampaignID(),
			record.CampaignName(),
			record.Date(),
			metricsJSON,
		)
	}

	return query.
		Suffix(`
			ON CONFLICT (account_id, campaign_id, date) DO UPDATE SET
				campaign_name = EXCLUDED.campaign_name,
				metrics = EXCLUDED.metrics,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *campaignMetricRepository) GetByDateRange(ctx context.Context, accountID string, startDate, endDate time.Time) ([]*domain.CampaignMetricEntry, error) {
	query, args, err := buildSelectByDateRange(accountID, startDate, endDate)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query")
	}
	defer rows.Close()

	entries := make([]*domain.CampaignMetricEntry, 0)
	for rows.Next() {
		entry, err := scanCampaignMetric(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear métricas de campanha")
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return entries, nil
}

func buildSelectByDateRange(accountID string, startDate, endDate time.Time) (string, []interface{}, error) {
	return squirrel.
		Select("id, account_id, campaign_id, campaign_name, date, metrics, created_at, updated_at").
		From(campaignMetricsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.GtOrEq{"date": startDate.Format(dateLayout)}).
		Where(squirrel.LtOrEq{"date": endDate.Format(dateLayout)}).
		OrderBy("date ASC", "campaign_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanCampaignMetric(rows *sql.Rows) (*domain.CampaignMetricEntry, error) {
	entry := &domain.CampaignMetricEntry{}
	var metricsJSON []byte
	var campaignName sql.NullString

	err := rows.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.CampaignID,
		&campaignName,
		&entry.Date,
		&metricsJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.CampaignName = campaignName.String

	if metricsJSON != nil {
		if err := json.Unmarshal(metricsJSON, &entry.Metrics); err != nil {
			return nil, errors.Wrap(err, "erro ao deserializar JSON de metrics")
		}
	}

	return entry, nil
}
