package domain

import "time"

// SyncResult resume uma execução de sincronização
type SyncResult struct {
	RunID       string        `json:"run_id"`
	AccountID   string        `json:"account_id"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Emitted     int           `json:"records_emitted"`
	Dropped     int           `json:"records_dropped"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
}
