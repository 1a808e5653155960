// Package loader coalesces relationship lookups made by sibling nodes of one
// resolution level into a single bulk fetch per edge.
//
// A Loader belongs to exactly one request. Callers register keys with Load,
// then call Dispatch once the level has been walked; every handle returned
// by Load is settled when Dispatch returns.
package loader

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"socialgraph/internal/middleware"
	"socialgraph/internal/observability"
	"socialgraph/internal/registry"
	"socialgraph/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ErrNotDispatched is returned by a handle read before its batch was dispatched.
var ErrNotDispatched = errors.New("loader: batch not dispatched")

// Source performs the bulk fetch for one edge.
type Source interface {
	FindMany(ctx context.Context, entity string, filter repository.Filter) ([]any, error)
}

// Loader collects pending keys per edge.
type Loader struct {
	src Source

	mu      sync.Mutex
	pending map[string]*batch
	order   []string
}

type batch struct {
	edge    *registry.Edge
	keys    []string
	handles map[string]*Handle
}

// Handle is the eventual result of one (edge, key) lookup.
type Handle struct {
	edge    *registry.Edge
	key     string
	settled bool
	rows    []any
	err     error
}

// New creates a Loader fetching through src.
func New(src Source) *Loader {
	return &Loader{src: src, pending: map[string]*batch{}}
}

// Load registers key for edge and returns its handle. Repeated keys within one
// batch share a handle.
func (l *Loader) Load(edge *registry.Edge, key string) *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.pending[edge.ID]
	if !ok {
		b = &batch{edge: edge, handles: map[string]*Handle{}}
		l.pending[edge.ID] = b
		l.order = append(l.order, edge.ID)
	}
	if h, ok := b.handles[key]; ok {
		return h
	}
	h := &Handle{edge: edge, key: key}
	b.handles[key] = h
	b.keys = append(b.keys, key)
	return h
}

// Pending reports the number of edges with registered keys.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Dispatch issues one bulk fetch per pending edge, concurrently, and settles
// every handle. Keys registered after Dispatch starts form the next batch.
func (l *Loader) Dispatch(ctx context.Context) {
	l.mu.Lock()
	batches := make([]*batch, 0, len(l.order))
	for _, id := range l.order {
		batches = append(batches, l.pending[id])
	}
	l.pending = map[string]*batch{}
	l.order = nil
	l.mu.Unlock()

	if len(batches) == 0 {
		return
	}

	var g errgroup.Group
	for _, b := range batches {
		g.Go(func() error {
			l.fetch(ctx, b)
			return nil
		})
	}
	_ = g.Wait()
}

func (l *Loader) fetch(ctx context.Context, b *batch) {
	span, ctx := observability.NewSpan(ctx, "loader.dispatch",
		attribute.String("loader.edge", b.edge.ID),
		attribute.Int("loader.keys", len(b.keys)),
	)
	defer span.End()

	rows, err := l.src.FindMany(ctx, b.edge.Lookup.Entity, repository.Filter{
		Column:  b.edge.Lookup.Column,
		Values:  b.keys,
		Preload: b.edge.Lookup.Preload,
	})
	observability.ObserveBatch(b.edge.ID, len(b.keys), err)

	if err != nil {
		span.SetError(err)
		middleware.Logger.WarnContext(ctx, "loader batch failed",
			slog.String("edge", b.edge.ID),
			slog.Int("keys", len(b.keys)),
			slog.String("error", err.Error()),
		)
		for _, h := range b.handles {
			h.settle(nil, err)
		}
		return
	}

	grouped := make(map[string][]any, len(b.keys))
	for _, row := range rows {
		key, ok := b.edge.GroupKey(row)
		if !ok {
			continue
		}
		target := b.edge.Project(row)
		if target == nil {
			continue
		}
		grouped[key] = append(grouped[key], target)
	}
	for key, h := range b.handles {
		h.settle(grouped[key], nil)
	}

	middleware.Logger.DebugContext(ctx, "loader batch dispatched",
		slog.String("edge", b.edge.ID),
		slog.Int("keys", len(b.keys)),
		slog.Int("rows", len(rows)),
	)
}

func (h *Handle) settle(rows []any, err error) {
	h.rows = rows
	h.err = err
	h.settled = true
}

// Key returns the key the handle was registered for.
func (h *Handle) Key() string {
	return h.key
}

// One returns the single related record of a to-one edge. found is false when
// no row matched the key.
func (h *Handle) One() (rec any, found bool, err error) {
	if !h.settled {
		return nil, false, ErrNotDispatched
	}
	if h.err != nil {
		return nil, false, h.err
	}
	if len(h.rows) == 0 {
		return nil, false, nil
	}
	return h.rows[0], true, nil
}

// Many returns the related records of a to-many edge. A key with no matching
// rows yields an empty, non-nil slice.
func (h *Handle) Many() ([]any, error) {
	if !h.settled {
		return nil, ErrNotDispatched
	}
	if h.err != nil {
		return nil, h.err
	}
	if h.rows == nil {
		return []any{}, nil
	}
	return h.rows, nil
}
