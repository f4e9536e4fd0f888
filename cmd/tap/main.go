package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vfg2006/rokt-tap/infrastructure/migration"
	"github.com/vfg2006/rokt-tap/internal/api"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/internal/output"
	"github.com/vfg2006/rokt-tap/internal/scheduler"
	"github.com/vfg2006/rokt-tap/internal/usecases/authenticating"
	"github.com/vfg2006/rokt-tap/internal/usecases/syncing"
	"github.com/vfg2006/rokt-tap/pkg/utils"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &appOptions{}

	rootCmd := &cobra.Command{
		Use:   "rokt-tap",
		Short: "Extrai métricas de campanhas da API de relatórios da Rokt",
		Long: `rokt-tap autentica via OAuth2 client credentials, consulta as métricas
diárias por campanha de uma conta Rokt e emite os registros no formato Singer.

Exemplos:
  rokt-tap discover
  rokt-tap sync --config config.json
  rokt-tap sync --days-back 3
  rokt-tap serve`,
		Version:       version,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "arquivo de configuração do tap (json ou yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "sobrescreve LOG_LEVEL")

	rootCmd.AddCommand(
		newDiscoverCmd(),
		newSyncCmd(opts),
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)

	return rootCmd
}

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Imprime o catálogo do stream campaigns_breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return output.WriteJSON(cmd.OutOrStdout(), domain.NewCatalog())
		},
	}
}

func newSyncCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Executa uma sincronização e escreve as mensagens Singer em stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), opts, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			sinks := app.sinks(output.NewSingerWriter(cmd.OutOrStdout(), app.clock))
			result, err := app.syncService(sinks).Run(cmd.Context())
			if err != nil {
				return err
			}

			app.logger.Infof("Execução %s: %d registros emitidos, %d descartados", result.RunID, result.Emitted, result.Dropped)
			app.logger.Debug(utils.PrettyJson(result))
			return nil
		},
	}

	cmd.Flags().Int("days-back", 0, "dias para trás a partir de hoje (sobrescreve days_back)")
	cmd.Flags().String("start-date", "", "início da janela (YYYY-MM-DD ou YYYY-MM-DDTHH:MM:SS.000)")
	cmd.Flags().String("end-date", "", "fim da janela (YYYY-MM-DD ou YYYY-MM-DDTHH:MM:SS.000)")

	return cmd
}

func newServeCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API de administração e o agendador de sincronização",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, opts, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			authenticator, err := authenticating.NewService(app.cfg.SecretKey, app.clock)
			if err != nil {
				return err
			}

			var sinks []syncing.RecordSink
			if app.metricRepo == nil {
				sinks = append(sinks, output.NewSingerWriter(cmd.OutOrStdout(), app.clock))
			}

			syncService := scheduler.NewCampaignSyncService(
				app.syncService(app.sinks(sinks...)),
				app.cfg.CampaignSync,
				app.clock,
				app.logger,
			)
			if err := syncService.Start(ctx); err != nil {
				return err
			}

			server := api.New(app.cfg, authenticator, syncService, app.metricRepo, app.clock, app.logger)
			err = server.Run(ctx)
			syncService.Wait()
			return err
		},
	}
}

func newMigrateCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Cria a tabela rokt_campaign_metrics no Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}

			conn, err := connectDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			return migration.Run(cmd.Context(), conn, logger)
		},
	}
}

func newTokenCmd(opts *appOptions) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Gera um token HS256 para a API de administração",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}

			authenticator, err := authenticating.NewService(cfg.SecretKey, nil)
			if err != nil {
				return err
			}

			token, err := authenticator.GenerateToken(subject, role, ttl)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "identificação do operador")
	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "admin ou viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "validade do token")

	return cmd
}
