package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/internal/usecases/syncing"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

// CampaignSyncStatus é o estado exposto pela API de administração
type CampaignSyncStatus struct {
	Enabled         bool               `json:"sync_enabled"`
	CronSchedule    string             `json:"sync_cron"`
	Running         bool               `json:"running"`
	LastStartedAt   time.Time          `json:"last_sync_started_at"`
	LastCompletedAt time.Time          `json:"last_sync_completed_at"`
	LastResult      *domain.SyncResult `json:"last_result,omitempty"`
	LastError       string             `json:"last_error,omitempty"`
}

// CampaignSyncService agenda e executa a sincronização de métricas de campanha
type CampaignSyncService struct {
	scheduler *gocron.Scheduler
	config    config.CampaignSync
	syncer    syncing.Syncer
	clock     clock.Clock
	logger    log.Logger

	baseCtx context.Context
	wg      sync.WaitGroup

	syncMutex       sync.Mutex
	syncRunning     bool
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastResult      *domain.SyncResult
	lastError       error
}

func NewCampaignSyncService(
	syncer syncing.Syncer,
	cfg config.CampaignSync,
	clk clock.Clock,
	logger log.Logger,
) *CampaignSyncService {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = log.L
	}

	logger.WithFields(log.Fields{
		"cron_schedule": cfg.CronSchedule,
		"sync_enabled":  cfg.Enabled,
	}).Info("Configuração do agendador de métricas de campanha carregada")

	return &CampaignSyncService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    cfg,
		syncer:    syncer,
		clock:     clk,
		logger:    logger,
		baseCtx:   context.Background(),
	}
}

// Start agenda a sincronização; o agendador para quando ctx for cancelado
func (s *CampaignSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.Enabled {
		s.logger.Info("Sincronização de métricas de campanha desabilitada por configuração")
		return nil
	}

	s.logger.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de métricas de campanha")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de métricas de campanha: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.logger.Info("Parando agendador de sincronização de métricas de campanha")
		s.scheduler.Stop()
	}()

	return nil
}

// runSync executa uma sincronização, ignorando a chamada se outra já estiver em andamento
func (s *CampaignSyncService) runSync(ctx context.Context) {
	if !s.tryStart() {
		s.logger.Info("Sincronização de métricas de campanha já em andamento, ignorando")
		return
	}
	s.execute(ctx)
}

func (s *CampaignSyncService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastStartedAt = s.clock.Now()
	return true
}

func (s *CampaignSyncService) execute(ctx context.Context) {
	ctx, _ = log.WithCorrelationID(ctx)
	result, err := s.syncer.Run(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastCompletedAt = s.clock.Now()
	s.lastError = err
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Sincronização de métricas de campanha falhou")
		return
	}
	s.lastResult = result
}

// TriggerManualSync inicia uma sincronização em segundo plano. Retorna false
// se já houver uma em andamento.
func (s *CampaignSyncService) TriggerManualSync() bool {
	if !s.tryStart() {
		s.logger.Info("Sincronização de métricas de campanha já em andamento, ignorando solicitação manual")
		return false
	}

	s.logger.Info("Iniciando sincronização manual de métricas de campanha")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(s.baseCtx)
	}()
	return true
}

// Wait bloqueia até que as sincronizações manuais em andamento terminem
func (s *CampaignSyncService) Wait() {
	s.wg.Wait()
}

// GetStatus retorna o status atual do agendador
func (s *CampaignSyncService) GetStatus() CampaignSyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := CampaignSyncStatus{
		Enabled:         s.config.Enabled,
		CronSchedule:    s.config.CronSchedule,
		Running:         s.syncRunning,
		LastStartedAt:   s.lastStartedAt,
		LastCompletedAt: s.lastCompletedAt,
		LastResult:      s.lastResult,
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	return status
}
