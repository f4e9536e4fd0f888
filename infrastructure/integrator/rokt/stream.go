package rokt

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	"github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/roktclient"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

const (
	campaignsBreakdownPath = "/query/accounts/%s/campaigns/"
	responseDataField      = "data"
)

// CampaignsBreakdownStream produz as métricas diárias por campanha de uma conta
type CampaignsBreakdownStream struct {
	client roktclient.Client
	window domain.SyncWindow
	logger log.Logger
}

// NewCampaignsBreakdownStream calcula a janela de sincronização a partir da
// configuração no instante atual do relógio. DaysBack nil volta 14 dias.
func NewCampaignsBreakdownStream(client roktclient.Client, cfg config.Rokt, clk clock.Clock, logger log.Logger) (*CampaignsBreakdownStream, error) {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = log.L
	}

	window, err := domain.NewSyncWindow(domain.SyncWindowOptions{
		AccountID: cfg.AccountID,
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
		DaysBack:  cfg.DaysBack,
		Currency:  cfg.Currency,
		TimeZone:  cfg.TimeZoneVariation,
	}, clk.Now())
	if err != nil {
		return nil, err
	}

	return &CampaignsBreakdownStream{
		client: client,
		window: window,
		logger: logger.WithFields(log.Fields{
			"stream":     domain.StreamCampaignsBreakdown,
			"account_id": cfg.AccountID,
		}),
	}, nil
}

func (s *CampaignsBreakdownStream) Name() string {
	return domain.StreamCampaignsBreakdown
}

func (s *CampaignsBreakdownStream) Window() domain.SyncWindow {
	return s.window
}

func (s *CampaignsBreakdownStream) Schema() domain.Schema {
	return domain.CampaignsBreakdownSchema()
}

// Path retorna o caminho da consulta, sem o prefixo de versão
func (s *CampaignsBreakdownStream) Path() string {
	return fmt.Sprintf(campaignsBreakdownPath, url.PathEscape(s.window.AccountID))
}

// BuildQuery monta o corpo da consulta cobrindo a janela inteira
func (s *CampaignsBreakdownStream) BuildQuery() roktdomain.QueryRequest {
	return roktdomain.NewCampaignsBreakdownQuery(s.window)
}

// ProduceRecords faz a consulta e retorna um iterador sobre os registros
// válidos. Cada chamada dispara uma nova requisição; o iterador retornado é
// de passada única. Erros do client são propagados sem alteração.
func (s *CampaignsBreakdownStream) ProduceRecords(ctx context.Context) (*RecordIterator, error) {
	s.logger.WithFields(log.Fields{
		"start_date": s.window.StartDateString(),
		"end_date":   s.window.EndDateString(),
	}).Info("Buscando métricas de campanhas")

	resp, err := s.client.Post(ctx, s.Path(), s.BuildQuery())
	if err != nil {
		return nil, err
	}

	items, err := extractData(resp)
	if err != nil {
		s.logger.WithError(err).Error("Resposta da API sem a lista data")
		return nil, err
	}

	s.logger.WithField("rows", len(items)).Debug("Linhas recebidas da API")

	return newRecordIterator(items), nil
}

func extractData(resp roktdomain.Response) ([]any, error) {
	raw, ok := resp[responseDataField]
	if !ok {
		return nil, &roktdomain.MalformedResponseError{Field: responseDataField, Reason: "chave ausente"}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &roktdomain.MalformedResponseError{
			Field:  responseDataField,
			Reason: fmt.Sprintf("esperada uma lista, recebido %T", raw),
		}
	}

	return items, nil
}

// RecordIterator percorre uma única vez as linhas de uma resposta, descartando
// placeholders vazios e linhas sem campaign_id. Para percorrer de novo é
// preciso chamar ProduceRecords outra vez.
type RecordIterator struct {
	items   []any
	pos     int
	current domain.MetricRecord
	emitted int
	dropped int
}

func newRecordIterator(items []any) *RecordIterator {
	return &RecordIterator{items: items}
}

// Next avança para o próximo registro válido
func (it *RecordIterator) Next() bool {
	for it.pos < len(it.items) {
		raw := it.items[it.pos]
		// libera a linha bruta para o GC à medida que avança
		it.items[it.pos] = nil
		it.pos++

		record, ok := domain.NewMetricRecord(raw)
		if !ok {
			it.dropped++
			continue
		}

		it.current = record
		it.emitted++
		return true
	}

	it.current = nil
	return false
}

// Record retorna o registro corrente, válido após Next retornar true
func (it *RecordIterator) Record() domain.MetricRecord {
	return it.current
}

// All adapta o iterador para range-over-func
func (it *RecordIterator) All() iter.Seq[domain.MetricRecord] {
	return func(yield func(domain.MetricRecord) bool) {
		for it.Next() {
			if !yield(it.current) {
				return
			}
		}
	}
}

// Collect consome o restante do iterador
func (it *RecordIterator) Collect() []domain.MetricRecord {
	records := make([]domain.MetricRecord, 0, len(it.items)-it.pos)
	for it.Next() {
		records = append(records, it.current)
	}
	return records
}

func (it *RecordIterator) Emitted() int {
	return it.emitted
}

// Dropped conta as linhas descartadas silenciosamente até agora
func (it *RecordIterator) Dropped() int {
	return it.dropped
}

// Exhausted informa se todas as linhas já foram consumidas
func (it *RecordIterator) Exhausted() bool {
	return it.pos >= len(it.items)
}
