package handler

import (
	"net/http"

	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/internal/scheduler"
	"github.com/vfg2006/rokt-tap/pkg/apiErrors"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"github.com/vfg2006/rokt-tap/pkg/middleware"
)

// SyncTrigger é satisfeito por *scheduler.CampaignSyncService
type SyncTrigger interface {
	TriggerManualSync() bool
	GetStatus() scheduler.CampaignSyncStatus
}

// RunSync dispara manualmente a sincronização de métricas de campanha
func RunSync(service SyncTrigger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		if claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); ok {
			logger = logger.WithField("subject", claims.Subject)
		}

		if !service.TriggerManualSync() {
			logger.Info("sync: solicitação manual ignorada, sincronização em andamento")
			apiErrors.WriteError(w, apiErrors.ErrSyncInProgress, "Já existe uma sincronização em andamento", service.GetStatus())
			return
		}

		logger.Info("sync: sincronização manual iniciada")
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Sincronização iniciada com sucesso",
			"status":  service.GetStatus(),
		})
	})
}

// GetSyncStatus retorna o status do agendador e o resultado da última execução
func GetSyncStatus(service SyncTrigger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, service.GetStatus())
	})
}
