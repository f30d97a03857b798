package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	logBatchSize     = 50
	logFlushInterval = 5 * time.Second
)

// PGHandler is an slog.Handler that batches ERROR+ records into the
// system_logs table. Writes are buffered and flushed in the background so a
// slow database never blocks the request path. Handlers derived via WithAttrs
// share one buffer and flush loop.
type PGHandler struct {
	sink *pgSink
	base []slog.Attr
}

type pgSink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	h := &PGHandler{
		sink: &pgSink{
			db:     db,
			buffer: make([]models.SystemLog, 0, logBatchSize),
			ticker: time.NewTicker(logFlushInterval),
			done:   make(chan struct{}),
		},
	}
	go h.sink.flushLoop()
	return h
}

func (s *pgSink) flushLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, logBatchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, logBatchSize).Error; err != nil {
		slog.Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes the remaining buffer and halts the background loop.
func (h *PGHandler) Stop() {
	h.sink.ticker.Stop()
	close(h.sink.done)
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	consume := func(a slog.Attr) {
		switch a.Key {
		case "trace_id":
			entry.TraceID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			if f, ok := a.Value.Any().(float64); ok {
				entry.LatencyMs = int(math.Round(f))
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
	}
	for _, a := range h.base {
		consume(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		consume(a)
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.sink
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= logBatchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &PGHandler{
		sink: h.sink,
		base: append(append([]slog.Attr{}, h.base...), attrs...),
	}
}

func (h *PGHandler) WithGroup(_ string) slog.Handler {
	return h
}
