package syncing

import (
	"context"

	"github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt"
	"github.com/vfg2006/rokt-tap/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// RecordSink recebe os registros de uma sincronização
type RecordSink interface {
	Name() string
	// Open é chamado uma vez por execução, antes de qualquer registro
	Open(ctx context.Context, stream string, schema domain.Schema, keyProperties []string) error
	WriteRecord(ctx context.Context, accountID string, record domain.MetricRecord) error
	// Flush só é chamado quando todos os registros foram escritos sem erro
	Flush(ctx context.Context) error
}

// Streamer é satisfeito por *rokt.CampaignsBreakdownStream
type Streamer interface {
	Name() string
	Window() domain.SyncWindow
	Schema() domain.Schema
	ProduceRecords(ctx context.Context) (*rokt.RecordIterator, error)
}

// StreamFactory monta um stream novo a cada execução, recalculando a janela
type StreamFactory func() (Streamer, error)

type Syncer interface {
	Run(ctx context.Context) (*domain.SyncResult, error)
}
