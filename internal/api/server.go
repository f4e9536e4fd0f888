package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/rokt-tap/infrastructure/repository"
	"github.com/vfg2006/rokt-tap/internal/api/handler"
	"github.com/vfg2006/rokt-tap/internal/api/handler/router"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/internal/usecases/authenticating"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"github.com/vfg2006/rokt-tap/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
	logger     log.Logger
}

// New monta a API de administração. metricRepo pode ser nil quando o banco
// está desabilitado; nesse caso a rota de consulta de métricas não existe.
func New(
	cfg *config.Config,
	authenticator authenticating.Authenticator,
	syncService handler.SyncTrigger,
	metricRepo repository.CampaignMetricRepository,
	clk clock.Clock,
	logger log.Logger,
) *Server {
	configs := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck(clk)...),
		router.WithRoutes(handler.Sync(syncService)...),
	}
	if metricRepo != nil {
		configs = append(configs, router.WithRoutes(handler.CampaignMetrics(metricRepo, cfg.Rokt.AccountID)...))
	}
	rt := router.New(configs...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run atende requisições até ctx ser cancelado e então desliga o servidor
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.WithError(err).Error("Erro durante a execução do servidor")
			return fmt.Errorf("erro ao iniciar servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	s.logger.Info("Servidor desligado com sucesso")
	return nil
}
