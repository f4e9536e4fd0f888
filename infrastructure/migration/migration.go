package migration

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/rokt-tap/infrastructure/database/postgres"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

// Statements cria a tabela de métricas de campanha. Todos são idempotentes.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS rokt_campaign_metrics (
		id            BIGSERIAL PRIMARY KEY,
		account_id    TEXT        NOT NULL,
		campaign_id   TEXT        NOT NULL,
		campaign_name TEXT,
		date          DATE        NOT NULL,
		metrics       JSONB       NOT NULL DEFAULT '{}'::jsonb,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT rokt_campaign_metrics_key UNIQUE (account_id, campaign_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS rokt_campaign_metrics_account_date_idx
		ON rokt_campaign_metrics (account_id, date)`,
}

// Run aplica as migrações em uma única transação
func Run(ctx context.Context, conn postgres.Conn, logger log.Logger) error {
	logger.Infof("Iniciando migração (%d statements)...", len(Statements))
	startTime := time.Now()

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.Wrapf(err, "erro ao executar statement %d", i+1)
			}
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("Migração falhou")
		return err
	}

	logger.WithField("elapsed", time.Since(startTime).String()).Info("Migração concluída")
	return nil
}
