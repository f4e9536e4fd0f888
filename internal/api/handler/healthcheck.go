package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

type healthcheckResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func HealthcheckHandler(clk clock.Clock) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthcheckResponse{
			Status: "ok",
			Time:   clk.Now().Format(time.RFC3339),
		})
		log.ForContext(r.Context()).Debug("healthcheck respondido")
	})
}
