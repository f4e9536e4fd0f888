package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatePart(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "datetime completo", input: "2024-01-05T00:00:00", expected: "2024-01-05", ok: true},
		{name: "com milissegundos", input: "2024-03-01T23:59:59.000Z", expected: "2024-03-01", ok: true},
		{name: "apenas data", input: "2024-03-01", expected: "2024-03-01", ok: true},
		{name: "curto demais", input: "2024-03", ok: false},
		{name: "vazio", input: "", ok: false},
		{name: "lixo com tamanho de data", input: "xxxxxxxxxxT", ok: false},
		{name: "mês inexistente", input: "2024-13-01T00:00:00", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DatePart(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ref := time.Date(2024, 3, 10, 15, 4, 5, 999, time.UTC)

	assert.Equal(t, "2024-03-10T00:00:00.000", StartOfDay(ref).Format(RoktDateTimeLayout))
	assert.Equal(t, "2024-03-10T23:59:59.000", EndOfDay(ref).Format(RoktDateTimeLayout))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *d)

	empty, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
