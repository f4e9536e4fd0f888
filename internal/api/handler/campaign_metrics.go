package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/rokt-tap/infrastructure/repository"
	"github.com/vfg2006/rokt-tap/pkg/apiErrors"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"github.com/vfg2006/rokt-tap/pkg/utils"
)

// GetCampaignMetrics lista as métricas gravadas para uma conta em um intervalo de datas.
// account_id é opcional e, se ausente, usa a conta configurada.
func GetCampaignMetrics(repo repository.CampaignMetricRepository, defaultAccountID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		query := r.URL.Query()

		accountID := query.Get("account_id")
		if accountID == "" {
			accountID = defaultAccountID
		}
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "account_id é obrigatório", nil)
			return
		}

		if query.Get("start_date") == "" || query.Get("end_date") == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "start_date e end_date são obrigatórios (YYYY-MM-DD)", nil)
			return
		}

		startDate, err := utils.ParseDate(query.Get("start_date"))
		if err != nil {
			logger.WithField("start_date", query.Get("start_date")).Warn("campaign-metrics: start_date inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		endDate, err := utils.ParseDate(query.Get("end_date"))
		if err != nil {
			logger.WithField("end_date", query.Get("end_date")).Warn("campaign-metrics: end_date inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		if startDate.After(*endDate) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "start_date não pode ser posterior a end_date", nil)
			return
		}

		entries, err := repo.GetByDateRange(r.Context(), accountID, *startDate, *endDate)
		if err != nil {
			logger.WithError(err).WithField("account_id", accountID).Error("campaign-metrics: erro ao consultar o banco")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar métricas de campanha", nil)
			return
		}

		logger.WithFields(log.Fields{
			"account_id": accountID,
			"rows":       len(entries),
		}).Info("campaign-metrics: consulta concluída")

		writeJSON(w, http.StatusOK, map[string]any{
			"account_id": accountID,
			"start_date": startDate.Format(time.DateOnly),
			"end_date":   endDate.Format(time.DateOnly),
			"data":       entries,
		})
	})
}
