package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

// Key returns the object key a dispatch record is stored under.
func Key(sid string) string {
	return "message-" + sid + ".json"
}

// Result lists the message ids that were persisted and those that were not.
type Result struct {
	IDs    []string
	Failed []string
}

type Logger struct {
	store Store
}

func NewLogger(store Store) *Logger {
	return &Logger{store: store}
}

// Persist writes one entry per record. A failed write is logged and recorded
// in Result.Failed; the remaining records are still written. An entry that
// already exists counts as persisted.
func (l *Logger) Persist(ctx context.Context, records []models.DispatchRecord) Result {
	res := Result{IDs: []string{}}
	backend := l.store.Name()

	for _, rec := range records {
		if rec.SID == "" {
			slog.Error("dispatch record has no message id, not persisting", "phone_hash", rec.To)
			putTotal.WithLabelValues(backend, "failed").Inc()
			res.Failed = append(res.Failed, rec.SID)
			continue
		}

		body, err := json.Marshal(rec)
		if err != nil {
			slog.Error("error encoding dispatch record", "sid", rec.SID, "error", err)
			putTotal.WithLabelValues(backend, "failed").Inc()
			res.Failed = append(res.Failed, rec.SID)
			continue
		}

		err = l.store.Put(ctx, Entry{Key: Key(rec.SID), Record: rec, Body: body})
		switch {
		case err == nil:
			putTotal.WithLabelValues(backend, "stored").Inc()
		case errors.Is(err, ErrDuplicate):
			slog.Warn("audit entry already exists", "sid", rec.SID, "backend", backend)
			putTotal.WithLabelValues(backend, "duplicate").Inc()
		default:
			slog.Error("error persisting dispatch record", "sid", rec.SID, "backend", backend, "error", err)
			putTotal.WithLabelValues(backend, "failed").Inc()
			res.Failed = append(res.Failed, rec.SID)
			continue
		}
		res.IDs = append(res.IDs, rec.SID)
	}

	return res
}

func (l *Logger) Close() error {
	return l.store.Close()
}
