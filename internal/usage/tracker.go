// Package usage counts model tokens per model and persona and keeps the
// totals in the data directory across sessions.
package usage

import (
	"context"
	"sync"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

type contextKey struct{}

// Tracker manages token usage recording and persistence.
type Tracker struct {
	mu    sync.Mutex
	data  Data
	path  string
	dirty bool
}

func emptyData() Data {
	return Data{
		Version: "1.0",
		Aggregate: AggregatedStats{
			ByModel:   make(map[string]TokenCounts),
			ByPersona: make(map[string]TokenCounts),
		},
	}
}

// Open loads the tracker from path, creating an empty file if needed.
func Open(path string) (*Tracker, error) {
	data, err := store.LoadDocument(path, emptyData())
	if err != nil {
		return nil, err
	}
	if data.Aggregate.ByModel == nil {
		data.Aggregate.ByModel = make(map[string]TokenCounts)
	}
	if data.Aggregate.ByPersona == nil {
		data.Aggregate.ByPersona = make(map[string]TokenCounts)
	}
	return &Tracker{data: data, path: path}, nil
}

// Track records one model request.
func (t *Tracker) Track(model, persona string, input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Aggregate.Total.Add(input, output)
	t.data.Aggregate.Requests++
	addToMap(t.data.Aggregate.ByModel, model, input, output)
	addToMap(t.data.Aggregate.ByPersona, persona, input, output)
	t.dirty = true
}

// Save writes the counts to disk if anything changed since the last save.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return nil
	}
	if err := store.SaveDocument(t.path, t.data); err != nil {
		return err
	}
	t.dirty = false
	logging.LLMDebug("Token usage saved: %d total over %d requests", t.data.Aggregate.Total.Total, t.data.Aggregate.Requests)
	return nil
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByPersona = copyTokenCountsMap(stats.ByPersona)
	return stats
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context, or nil.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}
