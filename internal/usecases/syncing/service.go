package syncing

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"github.com/vfg2006/rokt-tap/pkg/utils"
)

type Service struct {
	newStream StreamFactory
	sinks     []RecordSink
	clock     clock.Clock
	logger    log.Logger
}

func NewService(newStream StreamFactory, sinks []RecordSink, clk clock.Clock, logger log.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = log.L
	}
	return &Service{
		newStream: newStream,
		sinks:     sinks,
		clock:     clk,
		logger:    logger,
	}
}

// Run executa uma sincronização completa: monta o stream, faz a consulta e
// repassa cada registro para todos os sinks. Qualquer erro aborta a execução
// e nenhum sink recebe Flush.
func (s *Service) Run(ctx context.Context) (*domain.SyncResult, error) {
	if log.GetCorrelationID(ctx) == "" {
		ctx, _ = log.WithCorrelationID(ctx)
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar id da execução")
	}

	result := &domain.SyncResult{
		RunID:     runID,
		StartedAt: s.clock.Now(),
	}
	logger := s.logger.WithContext(ctx).WithField("run_id", result.RunID)

	stream, err := s.newStream()
	if err != nil {
		logger.WithError(err).Error("Erro ao montar o stream")
		return nil, errors.Wrap(err, "erro ao montar o stream")
	}

	window := stream.Window()
	result.AccountID = window.AccountID
	result.StartDate = window.StartDateString()
	result.EndDate = window.EndDateString()

	logger = logger.WithFields(log.Fields{
		"stream":     stream.Name(),
		"account_id": window.AccountID,
	})
	logger.Info("Iniciando sincronização")

	for _, sink := range s.sinks {
		if err := sink.Open(ctx, stream.Name(), stream.Schema(), domain.KeyProperties); err != nil {
			logger.WithError(err).WithField("sink", sink.Name()).Error("Erro ao abrir sink")
			return nil, errors.Wrapf(err, "erro ao abrir sink %s", sink.Name())
		}
	}

	records, err := stream.ProduceRecords(ctx)
	if err != nil {
		logger.WithError(err).Error("Sincronização falhou")
		return nil, err
	}

	for records.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := records.Record()
		for _, sink := range s.sinks {
			if err := sink.WriteRecord(ctx, window.AccountID, record); err != nil {
				logger.WithError(err).WithField("sink", sink.Name()).Error("Erro ao escrever registro")
				return nil, errors.Wrapf(err, "erro ao escrever registro no sink %s", sink.Name())
			}
		}
	}

	for _, sink := range s.sinks {
		if err := sink.Flush(ctx); err != nil {
			logger.WithError(err).WithField("sink", sink.Name()).Error("Erro ao finalizar sink")
			return nil, errors.Wrapf(err, "erro ao finalizar sink %s", sink.Name())
		}
	}

	result.Emitted = records.Emitted()
	result.Dropped = records.Dropped()
	result.CompletedAt = s.clock.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	logger.WithFields(log.Fields{
		"records_emitted": result.Emitted,
		"records_dropped": result.Dropped,
		"duration":        result.Duration.String(),
	}).Info("Sincronização concluída")

	return result, nil
}
