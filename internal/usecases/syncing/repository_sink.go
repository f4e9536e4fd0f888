package syncing

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/rokt-tap/infrastructure/repository"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

// RepositorySink acumula os registros da execução e grava tudo no Flush,
// em uma única transação
type RepositorySink struct {
	repo      repository.CampaignMetricRepository
	logger    log.Logger
	accountID string
	buffer    []domain.MetricRecord
}

func NewRepositorySink(repo repository.CampaignMetricRepository, logger log.Logger) *RepositorySink {
	if logger == nil {
		logger = log.L
	}
	return &RepositorySink{
		repo:   repo,
		logger: logger,
	}
}

func (s *RepositorySink) Name() string {
	return "postgres"
}

func (s *RepositorySink) Open(_ context.Context, _ string, _ domain.Schema, _ []string) error {
	s.buffer = s.buffer[:0]
	s.accountID = ""
	return nil
}

func (s *RepositorySink) WriteRecord(_ context.Context, accountID string, record domain.MetricRecord) error {
	s.accountID = accountID
	s.buffer = append(s.buffer, record)
	return nil
}

func (s *RepositorySink) Flush(ctx context.Context) error {
	if len(s.buffer) == 0 {
		return nil
	}

	affected, err := s.repo.SaveOrUpdate(ctx, s.accountID, s.buffer)
	if err != nil {
		return errors.Wrap(err, "erro ao salvar métricas de campanha")
	}

	s.logger.WithContext(ctx).WithFields(log.Fields{
		"account_id":    s.accountID,
		"records":       len(s.buffer),
		"rows_affected": affected,
	}).Info("Métricas de campanha salvas")

	s.buffer = s.buffer[:0]
	return nil
}
