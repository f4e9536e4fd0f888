package utils

import (
	"strings"
	"time"
)

// RoktDateTimeLayout é o formato de data aceito pela API de relatórios da Rokt
const RoktDateTimeLayout = "2006-01-02T15:04:05.000"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// StartOfDay retorna o dia informado às 00:00:00.000
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay retorna o dia informado às 23:59:59.000
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// DatePart extrai a parte de data (YYYY-MM-DD) de um datetime ISO-8601.
// Retorna false quando o valor é curto demais ou não começa com uma data válida.
func DatePart(datetime string) (string, bool) {
	datetime = strings.TrimSpace(datetime)
	if len(datetime) < len(time.DateOnly) {
		return "", false
	}
	date := datetime[:len(time.DateOnly)]
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", false
	}
	return date, true
}
