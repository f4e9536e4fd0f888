package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/rokt-tap/pkg/utils"
)

const (
	DefaultDaysBack = 14
	DefaultCurrency = "USD"
	DefaultTimeZone = "UTC"
)

var ErrInvalidSyncWindow = errors.New("janela de sincronização inválida")

// layouts aceitos para start_date/end_date informados na configuração
var windowLayouts = []string{
	utils.RoktDateTimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// SyncWindowOptions são os parâmetros configuráveis da janela. DaysBack nil
// significa o padrão de 14 dias; zero é válido e representa apenas o dia atual.
type SyncWindowOptions struct {
	AccountID string
	StartDate string
	EndDate   string
	DaysBack  *int
	Currency  string
	TimeZone  string
}

// SyncWindow é imutável depois de criada: use os getters para ler os valores
type SyncWindow struct {
	AccountID string
	Currency  string
	TimeZone  string
	startDate time.Time
	endDate   time.Time
}

// NewSyncWindow calcula a janela efetiva. Sem overrides, vai de
// (hoje - DaysBack) 00:00:00.000 até hoje 23:59:59.000.
func NewSyncWindow(opts SyncWindowOptions, now time.Time) (SyncWindow, error) {
	if strings.TrimSpace(opts.AccountID) == "" {
		return SyncWindow{}, fmt.Errorf("%w: account_id é obrigatório", ErrInvalidSyncWindow)
	}

	daysBack := DefaultDaysBack
	if opts.DaysBack != nil {
		daysBack = *opts.DaysBack
	}
	if daysBack < 0 {
		return SyncWindow{}, fmt.Errorf("%w: days_back negativo (%d)", ErrInvalidSyncWindow, daysBack)
	}

	start := utils.StartOfDay(now.AddDate(0, 0, -daysBack))
	end := utils.EndOfDay(now)

	var err error
	if opts.StartDate != "" {
		start, err = parseWindowDate(opts.StartDate, false)
		if err != nil {
			return SyncWindow{}, fmt.Errorf("%w: start_date: %v", ErrInvalidSyncWindow, err)
		}
	}
	if opts.EndDate != "" {
		end, err = parseWindowDate(opts.EndDate, true)
		if err != nil {
			return SyncWindow{}, fmt.Errorf("%w: end_date: %v", ErrInvalidSyncWindow, err)
		}
	}

	if start.After(end) {
		return SyncWindow{}, fmt.Errorf("%w: start_date %s posterior a end_date %s",
			ErrInvalidSyncWindow, start.Format(utils.RoktDateTimeLayout), end.Format(utils.RoktDateTimeLayout))
	}

	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	timeZone := opts.TimeZone
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	return SyncWindow{
		AccountID: opts.AccountID,
		Currency:  currency,
		TimeZone:  timeZone,
		startDate: start,
		endDate:   end,
	}, nil
}

// parseWindowDate aceita data pura (YYYY-MM-DD) ou datetime. Data pura vira
// início do dia, ou fim do dia quando endOfDay é verdadeiro.
func parseWindowDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)

	if d, err := time.Parse(time.DateOnly, value); err == nil {
		if endOfDay {
			return utils.EndOfDay(d), nil
		}
		return d, nil
	}

	for _, layout := range windowLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}

	return time.Time{}, fmt.Errorf("formato de data não reconhecido: %q", value)
}

func (w SyncWindow) StartDate() time.Time {
	return w.startDate
}

func (w SyncWindow) EndDate() time.Time {
	return w.endDate
}

// StartDateString retorna o início no formato ISO-8601 com milissegundos
func (w SyncWindow) StartDateString() string {
	return w.startDate.Format(utils.RoktDateTimeLayout)
}

func (w SyncWindow) EndDateString() string {
	return w.endDate.Format(utils.RoktDateTimeLayout)
}
