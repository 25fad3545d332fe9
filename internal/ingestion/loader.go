package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrMalformed marks a source that exists but cannot be parsed. It is never
// retried.
var ErrMalformed = errors.New("malformed source")

// Table is a parsed CSV extract. Header names are lowercased and trimmed.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
}

// Column returns the index of the first header matching one of names.
func (t *Table) Column(names ...string) (int, bool) {
	for _, name := range names {
		for i, h := range t.Header {
			if h == name {
				return i, true
			}
		}
	}
	return -1, false
}

// Loader reads CSV extracts that are written asynchronously by an external
// batch job, polling until each file exists.
type Loader struct {
	retryInterval time.Duration
}

func NewLoader(retryInterval time.Duration) *Loader {
	return &Loader{retryInterval: retryInterval}
}

// Load blocks until path exists and returns its contents. A missing file is
// retried indefinitely; any other failure is returned immediately.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	for attempt := 1; ; attempt++ {
		table, err := readTable(path)
		if err == nil {
			slog.Debug("source loaded", "path", path, "rows", len(table.Rows))
			return table, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		slog.Info("source not available yet, waiting before retrying",
			"path", path, "attempt", attempt, "retry_in", l.retryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// LoadAll loads every path concurrently and returns once all are available,
// in the order given. The first fatal error cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, paths ...string) ([]*Table, error) {
	tables := make([]*Table, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			t, err := l.Load(gctx, path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func readTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrMalformed, path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Table{
		Path:   path,
		Header: header,
		Rows:   records[1:],
	}, nil
}

// DeleteFiles removes each existing path and returns the ones deleted.
// Paths that do not exist are ignored.
func DeleteFiles(paths []string) []string {
	deleted := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("failed to delete source", "path", p, "error", err)
			}
			continue
		}
		deleted = append(deleted, p)
	}
	return deleted
}
