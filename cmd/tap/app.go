package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vfg2006/rokt-tap/infrastructure/database/postgres"
	"github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt"
	"github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/roktclient"
	"github.com/vfg2006/rokt-tap/infrastructure/repository"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/internal/usecases/syncing"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

type appOptions struct {
	configFile string
	logLevel   string
}

// app reúne as dependências compartilhadas pelos comandos sync e serve
type app struct {
	cfg        *config.Config
	logger     log.Logger
	clock      clock.Clock
	client     *roktclient.RoktClient
	conn       *postgres.Connection
	metricRepo repository.CampaignMetricRepository
}

// loadConfig carrega a configuração e monta o logger. Os logs vão para
// stderr porque stdout é reservado para as mensagens Singer.
func loadConfig(opts *appOptions) (*config.Config, log.Logger, error) {
	cfg, err := config.NewConfig(opts.configFile)
	if err != nil {
		return nil, nil, err
	}

	if opts.logLevel != "" {
		cfg.App.LogLevel = opts.logLevel
	}

	logger := log.New(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
	log.SetDefault(logger)

	return cfg, logger, nil
}

func newApp(ctx context.Context, opts *appOptions, cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := applyWindowFlags(cfg, cmd); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clk := clock.System()
	httpClient := roktclient.NewHTTPClient(cfg.Rokt.RequestTimeout)
	tokenManager := roktclient.NewTokenManager(cfg.Rokt, httpClient, clk, logger)

	a := &app{
		cfg:    cfg,
		logger: logger,
		clock:  clk,
		client: roktclient.NewClient(cfg.Rokt, tokenManager, httpClient, logger),
	}

	if cfg.Database.Enabled {
		conn, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.conn = conn
		a.metricRepo = repository.NewCampaignMetricRepository(conn, repository.DefaultBatchSize)
	}

	return a, nil
}

func applyWindowFlags(cfg *config.Config, cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("days-back") {
		daysBack, err := flags.GetInt("days-back")
		if err != nil {
			return err
		}
		cfg.Rokt.DaysBack = &daysBack
	}
	if flags.Changed("start-date") {
		startDate, err := flags.GetString("start-date")
		if err != nil {
			return err
		}
		cfg.Rokt.StartDate = startDate
	}
	if flags.Changed("end-date") {
		endDate, err := flags.GetString("end-date")
		if err != nil {
			return err
		}
		cfg.Rokt.EndDate = endDate
	}

	return nil
}

// sinks acrescenta o sink do Postgres aos informados quando o banco está habilitado
func (a *app) sinks(extra ...syncing.RecordSink) []syncing.RecordSink {
	sinks := append([]syncing.RecordSink{}, extra...)
	if a.metricRepo != nil {
		sinks = append(sinks, syncing.NewRepositorySink(a.metricRepo, a.logger))
	}
	return sinks
}

func (a *app) syncService(sinks []syncing.RecordSink) *syncing.Service {
	newStream := func() (syncing.Streamer, error) {
		return rokt.NewCampaignsBreakdownStream(a.client, a.cfg.Rokt, a.clock, a.logger)
	}
	return syncing.NewService(newStream, sinks, a.clock, a.logger)
}

func (a *app) Close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	}
}

func connectDatabase(ctx context.Context, cfg *config.Config, logger log.Logger) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logger.WithError(err).Error("Erro ao conectar ao PostgreSQL")
		return nil, errors.Wrap(err, "erro ao conectar ao PostgreSQL")
	}

	logger.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn, nil
}
