package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/pkg/clock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	MessageTypeSchema = "SCHEMA"
	MessageTypeRecord = "RECORD"
)

type SchemaMessage struct {
	Type          string        `json:"type"`
	Stream        string        `json:"stream"`
	Schema        domain.Schema `json:"schema"`
	KeyProperties []string      `json:"key_properties"`
}

type RecordMessage struct {
	Type          string              `json:"type"`
	Stream        string              `json:"stream"`
	Record        domain.MetricRecord `json:"record"`
	TimeExtracted string              `json:"time_extracted"`
}

// SingerWriter escreve mensagens no formato Singer, uma por linha
type SingerWriter struct {
	mu     sync.Mutex
	dst    io.Writer
	out    *bufio.Writer
	clock  clock.Clock
	stream string
}

func NewSingerWriter(out io.Writer, clk clock.Clock) *SingerWriter {
	if clk == nil {
		clk = clock.System()
	}
	return &SingerWriter{
		dst:   out,
		out:   bufio.NewWriter(out),
		clock: clk,
	}
}

// Open descarta o que uma execução anterior deixou no buffer sem Flush e
// escreve a mensagem SCHEMA do stream
func (w *SingerWriter) Open(_ context.Context, stream string, schema domain.Schema, keyProperties []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.out.Reset(w.dst)
	w.stream = stream
	return w.writeLine(SchemaMessage{
		Type:          MessageTypeSchema,
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	})
}

// WriteRecord escreve uma mensagem RECORD
func (w *SingerWriter) WriteRecord(_ context.Context, _ string, record domain.MetricRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stream == "" {
		return fmt.Errorf("output: RECORD escrito antes do SCHEMA")
	}

	return w.writeLine(RecordMessage{
		Type:          MessageTypeRecord,
		Stream:        w.stream,
		Record:        record,
		TimeExtracted: w.clock.Now().Format(time.RFC3339),
	})
}

// Flush descarrega o buffer
func (w *SingerWriter) Flush(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Flush()
}

func (w *SingerWriter) Name() string {
	return "singer"
}

func (w *SingerWriter) writeLine(msg any) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("output: erro ao serializar mensagem: %w", err)
	}
	if _, err := w.out.Write(line); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

// WriteJSON escreve v indentado, usado pelo comando discover
func WriteJSON(out io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = out.Write(raw)
	return err
}
